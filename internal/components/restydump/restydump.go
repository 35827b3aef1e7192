// Package restydump writes the body of every response of a resty client to
// a directory, it is used to capture pages for test fixtures.
package restydump

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"hltvminer/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_dump_write = "dump.write"
)

type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(name string, contents []byte) error {
	return os.WriteFile(filepath.Join(o.directory, name), contents, 0600)
}

// FileName turns a request url into a flat file name,
// ex. "https://www.hltv.org/results?offset=100" -> "results_offset-100.html".
func FileName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid.html"
	}
	name := strings.Trim(parsed.Path, "/")
	if name == "" {
		name = "index"
	}
	if parsed.RawQuery != "" {
		name += "_" + parsed.RawQuery
	}
	name = strings.NewReplacer("/", "_", "=", "-", "&", "_", "?", "_").Replace(name)
	return fmt.Sprintf("%s.html", name)
}

// Attach writes every response received by client to out.
func Attach(client *resty.Client, out FilesystemOutput, tel telemetry.API) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		name := FileName(res.Request.URL)
		err := out.Write(name, res.Body())
		if err != nil {
			tel.ReportWarning(report_dump_write, err, name)
		}
		return nil
	})
}
