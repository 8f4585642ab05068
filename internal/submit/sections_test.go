package submit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quill/internal/client"
)

type upperRenderer struct{}

func (upperRenderer) HTML(md string) (string, error) { return "<p>" + md + "</p>", nil }

type failingRenderer struct{}

func (failingRenderer) HTML(string) (string, error) { return "", errors.New("nope") }

func str(s string) *string { return &s }

func TestFromResponse_ErrorTakesPrecedence(t *testing.T) {
	res := FromResponse(&client.Response{
		Error:   str("bad key"),
		Readme:  str("# Hi"),
		Debug:   str("d"),
		Suggest: str("s"),
	})
	require.IsType(t, ErrorResult{}, res)
	assert.Equal(t, "bad key", res.(ErrorResult).Message)

	sections := BuildSections(res, upperRenderer{})
	require.Len(t, sections, 1)
	assert.True(t, sections[0].IsError())
	assert.Equal(t, "Error", sections[0].Title)
	assert.Equal(t, "bad key", sections[0].Text)
	assert.Empty(t, sections[0].HTML)
	assert.Nil(t, sections[0].Download)
}

func TestFromResponse_EmptyErrorIsIgnored(t *testing.T) {
	res := FromResponse(&client.Response{Error: str(""), Debug: str("d")})
	require.IsType(t, SuccessResult{}, res)
	sections := BuildSections(res, upperRenderer{})
	require.Len(t, sections, 1)
	assert.Equal(t, SectionDebug, sections[0].Kind)
}

func TestBuildSections_ErrorTextIsVerbatim(t *testing.T) {
	msg := "<b>not markup</b> & **not markdown**"
	sections := BuildSections(ErrorResult{Message: msg}, upperRenderer{})
	require.Len(t, sections, 1)
	assert.Equal(t, msg, sections[0].Text)
	assert.Empty(t, sections[0].Markdown)
}

func TestBuildSections_TransportError(t *testing.T) {
	sections := BuildSections(FromTransportError(errors.New("dial tcp: refused")), nil)
	require.Len(t, sections, 1)
	assert.Equal(t, "Network Error", sections[0].Title)
	assert.Equal(t, "dial tcp: refused", sections[0].Text)
}

func TestBuildSections_ReadmeOnly(t *testing.T) {
	sections := BuildSections(FromResponse(&client.Response{Readme: str("# Hi")}), upperRenderer{})
	require.Len(t, sections, 1)

	s := sections[0]
	assert.Equal(t, SectionReadme, s.Kind)
	assert.Equal(t, "README.md", s.Title)
	assert.Equal(t, "# Hi", s.Markdown)
	assert.Equal(t, "<p># Hi</p>", s.HTML)
	require.NotNil(t, s.Download)
	assert.Equal(t, "README.md", s.Download.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", s.Download.ContentType)
	assert.Equal(t, []byte("# Hi"), s.Download.Data)
}

func TestBuildSections_OrderAndPresence(t *testing.T) {
	sections := BuildSections(SuccessResult{
		Suggest: str("s"),
		Debug:   str("d"),
		Readme:  str(""),
	}, upperRenderer{})

	require.Len(t, sections, 2)
	assert.Equal(t, SectionDebug, sections[0].Kind)
	assert.Equal(t, "Debugging Help", sections[0].Title)
	assert.Nil(t, sections[0].Download)
	assert.Equal(t, SectionSuggest, sections[1].Kind)
	assert.Equal(t, "Improvement Suggestions", sections[1].Title)

	assert.Empty(t, BuildSections(SuccessResult{}, upperRenderer{}))
}

func TestBuildSections_RendererFallbackEscapes(t *testing.T) {
	sections := BuildSections(SuccessResult{Debug: str("<x>")}, failingRenderer{})
	require.Len(t, sections, 1)
	assert.Equal(t, "<pre>&lt;x&gt;</pre>", sections[0].HTML)
}

func TestValidate_Order(t *testing.T) {
	var verr *ValidationError

	err := Validate(0, "", nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "files", verr.Field)

	err = Validate(1, "  \t ", []Option{OptionReadme})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "api_key", verr.Field)
	assert.Equal(t, Validate(1, "", []Option{OptionReadme}), err)

	err = Validate(1, "key", nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "options", verr.Field)

	assert.NoError(t, Validate(2, " key ", []Option{OptionDebug}))
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(" readme, ,DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, []Option{OptionReadme, OptionDebug}, opts)

	opts, err = ParseOptions("")
	require.NoError(t, err)
	assert.Empty(t, opts)

	_, err = ParseOptions("readme,summary")
	assert.ErrorContains(t, err, "summary")

	assert.Equal(t, []string{"readme", "suggest"}, Strings([]Option{OptionReadme, OptionSuggest}))
}
