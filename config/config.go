// Package config loads the service configuration from an XML document.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var (
	// ErrNotFound means the configuration file does not exist.
	ErrNotFound = errors.New("config file not found")
	// ErrFieldMissing means a required field is absent or empty.
	ErrFieldMissing = errors.New("config field missing")
	// ErrTypeError means a field value has the wrong type.
	ErrTypeError = errors.New("config field has wrong type")
)

// Config holds all deployment parameters. Loaded once at startup, read-only
// afterwards.
type Config struct {
	Model   ModelConfig
	API     APIConfig
	Log     LogConfig
	Storage StorageConfig
	Cache   CacheConfig
	Watch   WatchConfig
}

// ModelConfig names the artifact and the request field carrying the input.
type ModelConfig struct {
	Path         string
	InputFeature string
}

// APIConfig is the bind address of the HTTP service.
type APIConfig struct {
	Host string
	Port int
}

// LogConfig controls log level and optional rotating file output.
type LogConfig struct {
	Level string
	File  string
}

// StorageConfig locates the prediction history database.
type StorageConfig struct {
	Path string
}

// CacheConfig sizes the prediction cache. Zero disables caching.
type CacheConfig struct {
	Size int
}

// WatchConfig toggles artifact hot reload.
type WatchConfig struct {
	Enabled bool
}

// document mirrors the XML schema. Port stays a string here so a non-numeric
// value can be reported as ErrTypeError instead of a decoder error.
type document struct {
	XMLName xml.Name `xml:"Configuration"`
	Model   struct {
		Path         string `xml:"Path"`
		InputFeature string `xml:"InputFeature"`
	} `xml:"Model"`
	API struct {
		Host string `xml:"Host"`
		Port string `xml:"Port"`
	} `xml:"API"`
	Log struct {
		Level string `xml:"Level"`
		File  string `xml:"File"`
	} `xml:"Log"`
	Storage struct {
		Path string `xml:"Path"`
	} `xml:"Storage"`
	Cache struct {
		Size string `xml:"Size"`
	} `xml:"Cache"`
	Watch struct {
		Enabled string `xml:"Enabled"`
	} `xml:"Watch"`
}

// Load reads and validates the configuration document at path.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer file.Close()

	decoder := xml.NewDecoder(file)
	decoder.CharsetReader = charsetReader

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	required := []struct {
		name  string
		value string
	}{
		{"Model/Path", doc.Model.Path},
		{"Model/InputFeature", doc.Model.InputFeature},
		{"API/Host", doc.API.Host},
		{"API/Port", doc.API.Port},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrFieldMissing, field.name)
		}
	}

	port, err := strconv.Atoi(strings.TrimSpace(doc.API.Port))
	if err != nil {
		return nil, fmt.Errorf("%w: API/Port %q is not an integer", ErrTypeError, doc.API.Port)
	}

	cfg := &Config{
		Model: ModelConfig{
			Path:         doc.Model.Path,
			InputFeature: doc.Model.InputFeature,
		},
		API: APIConfig{
			Host: doc.API.Host,
			Port: port,
		},
		Log: LogConfig{
			Level: doc.Log.Level,
			File:  doc.Log.File,
		},
		Storage: StorageConfig{
			Path: doc.Storage.Path,
		},
		Watch: WatchConfig{
			Enabled: parseBool(doc.Watch.Enabled),
		},
	}

	if doc.Cache.Size != "" {
		size, err := strconv.Atoi(strings.TrimSpace(doc.Cache.Size))
		if err != nil {
			return nil, fmt.Errorf("%w: Cache/Size %q is not an integer", ErrTypeError, doc.Cache.Size)
		}
		cfg.Cache.Size = size
	}

	return cfg, nil
}

// Addr returns the host:port bind address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

// charsetReader decodes GBK-family documents the same way the data feeds are
// decoded elsewhere; everything else is assumed UTF-8 compatible.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "us-ascii", "iso-8859-1":
		return input, nil
	case "gbk", "gb2312", "gb18030":
		return transform.NewReader(input, simplifiedchinese.GBK.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
}
