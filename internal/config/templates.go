package config

import (
	"fmt"
	"os"
)

// WriteTemplate writes the example program document to path. Refuses to
// overwrite an existing file unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(DocumentTemplate), 0o600)
}

// DocumentTemplate is a commented starter program document.
const DocumentTemplate = `# decld program document

[daemon]
retry_interval = "10s"
retry_jitter = false
# admin_addr = ":9400"
cors_origins = ["http://localhost:3000"]

[[process]]
name = "example"

  [[process.statement]]
  name = "greeting"
  module = "var"
  args = ["hello world"]

  [[process.statement]]
  module = "println"
  args = [{ var = "greeting" }]
`
