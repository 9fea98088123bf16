package sweep

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/svf"
)

// ErrInvalidValue is returned for a test value other than "0" or "1".
var ErrInvalidValue = errors.New("sweep: test value must be 0 or 1")

// DefaultOutDir is where generated files go unless configured otherwise.
const DefaultOutDir = "dist/generated_tests"

// Suite selects a family of test files.
type Suite string

const (
	SuiteReset Suite = "reset" // test_reset_fpga.svf
	SuiteRPi   Suite = "rpi"   // test_gpio_{write,read}_<pin>_<v>.svf
	SuiteMC    Suite = "mc"    // test_idcode_mc.svf, test_fpga_mc_<v>.svf
)

// AllSuites lists every suite in generation order.
func AllSuites() []Suite {
	return []Suite{SuiteReset, SuiteRPi, SuiteMC}
}

// ParseSuite accepts a suite name, ignoring case.
func ParseSuite(s string) (Suite, error) {
	for _, suite := range AllSuites() {
		if strings.EqualFold(string(suite), strings.TrimSpace(s)) {
			return suite, nil
		}
	}
	return "", fmt.Errorf("sweep: unknown suite %q", s)
}

// ParseValue converts "0" or "1" to a test value.
func ParseValue(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidValue, s)
}

// Config controls which files a Generator writes and how.
type Config struct {
	// Test selection
	Values         []bool  // polarities to generate (default: 0 and 1)
	Suites         []Suite // default: all
	OnlyPinPattern string  // if set, only RPi and MC pins matching this regex

	// Board and player settings
	Bridge    svf.PinNames // FPGA ports wired to the microcontroller's JTAG
	Frequency float64      // SVF FREQUENCY in Hz (default: 1 MHz)

	// Output
	OutDir string // default: DefaultOutDir
	Jobs   int    // files generated in parallel (default: number of CPUs)

	pinRegex *regexp.Regexp
}

// DefaultConfig returns the configuration that reproduces the board's full
// test set.
func DefaultConfig() *Config {
	return &Config{
		Values:    []bool{false, true},
		Suites:    AllSuites(),
		Bridge:    svf.DefaultPinNames(),
		Frequency: svf.DefaultFrequency,
		OutDir:    DefaultOutDir,
		Jobs:      runtime.NumCPU(),
	}
}

// Validate fills defaults, rejects duplicates that would produce the same
// file twice and compiles OnlyPinPattern.
func (c *Config) Validate() error {
	if len(c.Values) == 0 {
		c.Values = []bool{false, true}
	}
	if len(c.Values) > 2 || (len(c.Values) == 2 && c.Values[0] == c.Values[1]) {
		return fmt.Errorf("sweep: duplicate test values %v", c.Values)
	}
	if len(c.Suites) == 0 {
		c.Suites = AllSuites()
	}
	seen := make(map[Suite]bool)
	for _, s := range c.Suites {
		if _, err := ParseSuite(string(s)); err != nil {
			return err
		}
		if seen[s] {
			return fmt.Errorf("sweep: suite %s listed twice", s)
		}
		seen[s] = true
	}
	if c.Bridge == (svf.PinNames{}) {
		c.Bridge = svf.DefaultPinNames()
	}
	if c.Frequency <= 0 {
		c.Frequency = svf.DefaultFrequency
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Jobs < 1 {
		c.Jobs = runtime.NumCPU()
	}

	c.pinRegex = nil
	if c.OnlyPinPattern != "" {
		re, err := regexp.Compile(c.OnlyPinPattern)
		if err != nil {
			return fmt.Errorf("sweep: pin pattern: %w", err)
		}
		c.pinRegex = re
	}
	return nil
}

// HasSuite reports whether s is selected.
func (c *Config) HasSuite(s Suite) bool {
	for _, have := range c.Suites {
		if have == s {
			return true
		}
	}
	return false
}

// ShouldTestPin returns true if pin passes the OnlyPinPattern filter.
func (c *Config) ShouldTestPin(pin string) bool {
	if c.pinRegex == nil {
		return true
	}
	return c.pinRegex.MatchString(pin)
}
