package render

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"strings"
	"text/template"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/domain/sections"
)

// Payload encodings understood by the page script.
const (
	EncodingJSON   = "json"
	EncodingBase64 = "base64"
)

const defaultRefresh = 10 * time.Minute

//go:embed templates/page.html.tmpl
var pageTemplate string

// Options control how pages are rendered.
type Options struct {
	Encoding   string
	SlugPrefix string
	// Refresh is how often the browser reloads the page; zero means ten minutes.
	Refresh time.Duration
}

// Renderer turns organized sections into the embeddable page fragment.
type Renderer struct {
	tmpl *template.Template
	opts Options
}

type tab struct {
	Path   string
	Label  string
	Active bool
}

type pageData struct {
	Tabs          []tab
	Payload       string
	Base64        bool
	RefreshMillis int64
}

// New parses the embedded template once. An unknown encoding is an error.
func New(opts Options) (*Renderer, error) {
	switch opts.Encoding {
	case "":
		opts.Encoding = EncodingJSON
	case EncodingJSON, EncodingBase64:
	default:
		return nil, crerr.Newf("render: unknown encoding %q", opts.Encoding)
	}
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, crerr.Wrap(err, "render: parse page template")
	}
	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

// Render produces the page for day, with one tab per day in plan.
func (r *Renderer) Render(day matchday.Day, plan matchday.Plan, data []sections.Section) (string, error) {
	payload, err := r.encodePayload(data)
	if err != nil {
		return "", err
	}

	tabs := make([]tab, 0, len(plan))
	for _, d := range plan {
		tabs = append(tabs, tab{
			Path:   d.Path(r.opts.SlugPrefix),
			Label:  d.TabLabel(),
			Active: d == day,
		})
	}

	var buf bytes.Buffer
	err = r.tmpl.Execute(&buf, pageData{
		Tabs:          tabs,
		Payload:       payload,
		Base64:        r.opts.Encoding == EncodingBase64,
		RefreshMillis: r.opts.Refresh.Milliseconds(),
	})
	if err != nil {
		return "", crerr.Wrapf(err, "render: execute template for %s", day)
	}
	return buf.String(), nil
}

func (r *Renderer) encodePayload(data []sections.Section) (string, error) {
	raw, err := MarshalSections(data)
	if err != nil {
		return "", err
	}
	if r.opts.Encoding == EncodingBase64 {
		return base64.StdEncoding.EncodeToString(raw), nil
	}
	return EscapeScript(string(raw)), nil
}

// MarshalSections encodes sections as compact JSON with non-ASCII text kept as-is.
// A nil list encodes as [] so the page shows its empty state.
func MarshalSections(data []sections.Section) ([]byte, error) {
	if data == nil {
		data = []sections.Section{}
	}
	raw, err := sonic.ConfigDefault.Marshal(data)
	if err != nil {
		return nil, crerr.Wrap(err, "render: marshal sections")
	}
	return raw, nil
}

// EscapeScript makes JSON safe inside a <script> element by writing every "<"
// as \u003c. That covers "</script" as well as "<!--" openers that would push
// the HTML parser into the escaped script states. "<" only occurs inside JSON
// strings, where \u003c decodes back to the same text.
func EscapeScript(s string) string {
	return strings.ReplaceAll(s, "<", `\u003c`)
}
