// Package config loads quill's TOML configuration.
//
// # Configuration Discovery
//
// Load reads ~/.config/quill/config.toml unless a path is given. A missing
// file is not an error; the built-in defaults apply. Blank values in the file
// also fall back to defaults.
//
// # TOML Format
//
//	endpoint = "127.0.0.1:5000"
//	upload_path = "/upload"
//	download_dir = "~/Downloads"
//	log_dir = "~/.local/share/quill/logs"
//	default_options = ["readme", "debug"]
//	api_key_env = "GEMINI_API_KEY"
//
//	[server]
//	listen = "127.0.0.1:5000"
//	model = "gemini-3-flash-preview"
//	max_upload_mb = 100
//
// # Environment
//
// QUILL_ENDPOINT, QUILL_LISTEN and QUILL_MODEL override the file. The API key
// is never stored in the file; it is read from the variable named by
// api_key_env. LoadDotEnv loads a .env file from the working directory
// without replacing variables that are already set.
package config
