package bsdl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsBSDLFile reports whether path has a BSDL source extension.
func IsBSDLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bsd", ".bsdl", ".bsm":
		return true
	default:
		return false
	}
}

// Load reads a device from a BSDL source file or a JSON asset, chosen by
// extension. The device is validated before it is returned.
func Load(path string) (*Device, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("bsdl: open %s: %w", path, err)
		}
		defer f.Close()
		dev, err := DecodeJSON(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if dev.Name == "" {
			dev.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return dev, nil
	}

	if !IsBSDLFile(path) {
		return nil, fmt.Errorf("bsdl: %s: unsupported extension (want .json, .bsd, .bsdl or .bsm)", path)
	}
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	file, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	dev, err := deviceFromFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dev, nil
}
