package bsdl

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser reads BSDL source text.
type Parser struct {
	parser *participle.Parser[BSDLFile]
}

// NewParser builds the BSDL grammar.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[BSDLFile](
		participle.Lexer(BSDLLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("bsdl: build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses BSDL text from r. name is used in error positions.
func (p *Parser) Parse(name string, r io.Reader) (*BSDLFile, error) {
	file, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("bsdl: parse: %w", err)
	}
	return file, nil
}

// ParseString parses BSDL text held in memory.
func (p *Parser) ParseString(input string) (*BSDLFile, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("bsdl: parse: %w", err)
	}
	return file, nil
}

// ParseFile parses the BSDL file at path.
func (p *Parser) ParseFile(path string) (*BSDLFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bsdl: open %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(path, f)
}

// ParseDevice parses BSDL text and converts it to a validated Device.
func (p *Parser) ParseDevice(input string) (*Device, error) {
	file, err := p.ParseString(input)
	if err != nil {
		return nil, err
	}
	return deviceFromFile(file)
}

func deviceFromFile(file *BSDLFile) (*Device, error) {
	if file == nil || file.Entity == nil {
		return nil, fmt.Errorf("%w: no entity", ErrInvalidDevice)
	}
	dev, err := file.Entity.Device()
	if err != nil {
		return nil, err
	}
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	return dev, nil
}
