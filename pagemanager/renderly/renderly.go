package renderly

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bokwoon95/pagemanager/pagemanager/erro"
	"github.com/dgraph-io/ristretto"
	"github.com/microcosm-cc/bluemonday"
	"github.com/oxtoacart/bpool"
	"github.com/yuin/goldmark"
)

const templateKey = "templateKey\x00"

// Renderly parses html/template files out of an fs.FS and executes them into
// pooled buffers. Parsed templates are kept in a ristretto cache and are only
// ever cloned, never executed directly, so that per-execution funcs can be
// swapped in on the clone.
type Renderly struct {
	bufpool *bpool.BufferPool
	fs      fs.FS
	funcs   map[string]interface{}
	ext     string
	// cache
	cacheenabled bool
	cache        *ristretto.Cache
	// markdown fragments
	markdown   goldmark.Markdown
	htmlPolicy *bluemonday.Policy
}

type Option func(*Renderly) error

func New(fsys fs.FS, opts ...Option) (*Renderly, error) {
	ry := &Renderly{
		bufpool:      bpool.NewBufferPool(64),
		fs:           fsys,
		funcs:        FuncMap(),
		ext:          ".html",
		cacheenabled: true,
		markdown:     goldmark.New(),
		htmlPolicy:   bluemonday.UGCPolicy(),
	}
	var err error
	for _, opt := range opts {
		err = opt(ry)
		if err != nil {
			return ry, err
		}
	}
	if ry.fs == nil {
		return ry, errors.New("renderly: nil fs.FS")
	}
	if ry.cacheenabled {
		ry.cache, err = ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,     // number of keys to track frequency of (10k).
			MaxCost:     1 << 10, // maximum number of parsed templates kept.
			BufferItems: 64,      // number of keys per Get buffer.
		})
		if err != nil {
			return ry, erro.Wrap(err)
		}
	}
	return ry, nil
}

func TemplateFuncs(funcmaps ...map[string]interface{}) Option {
	return func(ry *Renderly) error {
		if ry.funcs == nil {
			ry.funcs = make(map[string]interface{})
		}
		for _, funcmap := range funcmaps {
			for name, fn := range funcmap {
				ry.funcs[name] = fn
			}
		}
		return nil
	}
}

// Extension sets the file extension appended to logical template names.
func Extension(ext string) Option {
	return func(ry *Renderly) error {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return errors.New("renderly: empty template extension")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		ry.ext = ext
		return nil
	}
}

// Cache toggles the parsed template cache. Turn it off in development so that
// template edits show up on the next request.
func Cache(enabled bool) Option {
	return func(ry *Renderly) error {
		ry.cacheenabled = enabled
		return nil
	}
}

// HTMLPolicy replaces the bluemonday policy applied to rendered markdown.
func HTMLPolicy(policy *bluemonday.Policy) Option {
	return func(ry *Renderly) error {
		if policy == nil {
			return errors.New("renderly: nil html policy")
		}
		ry.htmlPolicy = policy
		return nil
	}
}

func (ry *Renderly) FS() fs.FS { return ry.fs }

// Ext returns the template extension, including the leading dot.
func (ry *Renderly) Ext() string { return ry.ext }

// Exists reports whether name is a regular file in the underlying fs.FS.
func (ry *Renderly) Exists(name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(ry.fs, name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Lookup returns the parsed template for the file name. The returned template
// must be cloned before it is executed.
func (ry *Renderly) Lookup(name string) (*template.Template, error) {
	if ry.cacheenabled {
		if value, ok := ry.cache.Get(templateKey + name); ok {
			if t, ok := value.(*template.Template); ok {
				return t, nil
			}
			ry.cache.Del(templateKey + name)
		}
	}
	b, err := fs.ReadFile(ry.fs, name)
	if err != nil {
		return nil, erro.Wrap(err)
	}
	t, err := template.New(name).Funcs(ry.funcs).Parse(string(b))
	if err != nil {
		return nil, erro.Wrap(err)
	}
	if ry.cacheenabled {
		ry.cache.Set(templateKey+name, t, 1)
	}
	return t, nil
}

// Execute runs the template file name with data, overriding the parse-time
// funcs with funcs for this execution only. Output is staged in a pooled
// buffer so nothing reaches w if execution fails.
func (ry *Renderly) Execute(w io.Writer, name string, funcs template.FuncMap, data interface{}) error {
	t, err := ry.clone(name, funcs)
	if err != nil {
		return err
	}
	err = executeTemplate(t, ry.bufpool, w, name, data)
	if err != nil {
		return erro.Wrap(err)
	}
	return nil
}

// Capture is like Execute but returns the output as a string.
func (ry *Renderly) Capture(name string, funcs template.FuncMap, data interface{}) (string, error) {
	t, err := ry.clone(name, funcs)
	if err != nil {
		return "", err
	}
	tempbuf := ry.bufpool.Get()
	defer ry.bufpool.Put(tempbuf)
	err = t.ExecuteTemplate(tempbuf, name, data)
	if err != nil {
		return "", erro.Wrap(err)
	}
	return tempbuf.String(), nil
}

// Markdown converts the markdown file name to HTML, sanitizes it with the
// configured policy and writes it to w.
func (ry *Renderly) Markdown(w io.Writer, name string) error {
	b, err := fs.ReadFile(ry.fs, name)
	if err != nil {
		return erro.Wrap(err)
	}
	tempbuf := ry.bufpool.Get()
	defer ry.bufpool.Put(tempbuf)
	err = ry.markdown.Convert(b, tempbuf)
	if err != nil {
		return erro.Wrap(err)
	}
	_, err = w.Write(ry.htmlPolicy.SanitizeBytes(tempbuf.Bytes()))
	if err != nil {
		return erro.Wrap(err)
	}
	return nil
}

// Copy writes the file name to w as-is.
func (ry *Renderly) Copy(w io.Writer, name string) error {
	b, err := fs.ReadFile(ry.fs, name)
	if err != nil {
		return erro.Wrap(err)
	}
	_, err = io.Copy(w, bytes.NewReader(b))
	if err != nil {
		return erro.Wrap(err)
	}
	return nil
}

func (ry *Renderly) clone(name string, funcs template.FuncMap) (*template.Template, error) {
	master, err := ry.Lookup(name)
	if err != nil {
		return nil, err
	}
	t, err := master.Clone()
	if err != nil {
		return nil, erro.Wrap(err)
	}
	if len(funcs) > 0 {
		t = t.Funcs(funcs)
	}
	return t, nil
}

func executeTemplate(t *template.Template, bufpool *bpool.BufferPool, w io.Writer, name string, data interface{}) error {
	tempbuf := bufpool.Get()
	defer bufpool.Put(tempbuf)
	err := t.ExecuteTemplate(tempbuf, name, data)
	if err != nil {
		return err
	}
	_, err = tempbuf.WriteTo(w)
	if err != nil {
		return err
	}
	return nil
}

// AbsDir resolves relativePath against the directory of the calling source
// file. Tests use it to locate fixtures regardless of the working directory.
func AbsDir(relativePath string) string {
	_, absolutePath, _, _ := runtime.Caller(1)
	return filepath.Join(absolutePath, "..", relativePath) + string(os.PathSeparator)
}
