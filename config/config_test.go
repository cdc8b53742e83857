package config

import (
	"reflect"
	"testing"

	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	c, err := load(env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, defaults()) {
		t.Errorf("expected defaults, got %+v", c)
	}
	if c.MaxUploadBytes() != 32<<20 {
		t.Errorf("unexpected upload limit %d", c.MaxUploadBytes())
	}
}

func TestLoad(t *testing.T) {
	c, err := load(env(map[string]string{
		"PORT":          "9000",
		"ALLOW_ORIGINS": "http://a.example, http://b.example,",
		"MAX_UPLOAD_MB": "8",
		"LOG_LEVEL":     "debug",
		"TAG_VERSION":   "2.3",
		"TAG_PADDING":   "0",
	}))
	if err != nil {
		t.Fatal(err)
	}
	expected := Config{
		Port:         "9000",
		AllowOrigins: []string{"http://a.example", "http://b.example"},
		MaxUploadMB:  8,
		LogLevel:     "DEBUG",
		TagVersion:   frames.V23,
		TagPadding:   0,
	}
	if !reflect.DeepEqual(c, expected) {
		t.Errorf("expected %+v, got %+v", expected, c)
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
	}{
		{"port", map[string]string{"PORT": "http"}},
		{"port range", map[string]string{"PORT": "70000"}},
		{"upload", map[string]string{"MAX_UPLOAD_MB": "0"}},
		{"upload number", map[string]string{"MAX_UPLOAD_MB": "lots"}},
		{"padding", map[string]string{"TAG_PADDING": "-1"}},
		{"version", map[string]string{"TAG_VERSION": "5"}},
		{"version number", map[string]string{"TAG_VERSION": "four"}},
		{"level", map[string]string{"LOG_LEVEL": "chatty"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := load(env(tc.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
