package bsdl

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bitvec"
)

// Instruction is one INSTRUCTION_OPCODE entry. Some devices list several
// opcodes for one mnemonic; Opcodes keeps them in source order.
type Instruction struct {
	Name    string
	Opcodes []string // binary, MSB first
}

var instructionRegexp = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)`)

// GetInstructions parses an INSTRUCTION_OPCODE value such as
// "BYPASS (11111111), SAMPLE (10000, 00010)".
func GetInstructions(expr *Expression) []Instruction {
	if expr == nil {
		return nil
	}
	var out []Instruction
	for _, m := range instructionRegexp.FindAllStringSubmatch(expr.GetConcatenatedString(), -1) {
		inst := Instruction{Name: m[1], Opcodes: splitAndTrim(m[2])}
		if len(inst.Opcodes) > 0 {
			out = append(out, inst)
		}
	}
	return out
}

// GetInstructionOpcodes returns the entity's instruction set.
func (e *Entity) GetInstructionOpcodes() []Instruction {
	if attr := e.getAttributeSpec("INSTRUCTION_OPCODE"); attr != nil {
		return GetInstructions(attr.Is)
	}
	return nil
}

// ParseBinaryString converts a BSDL bit pattern to a value and a care mask.
// X bits are 0 in both.
func ParseBinaryString(s string) (value, mask string, hasWildcards bool) {
	var v, m strings.Builder
	for _, ch := range s {
		switch ch {
		case '0', '1':
			v.WriteRune(ch)
			m.WriteByte('1')
		case 'X', 'x':
			v.WriteByte('0')
			m.WriteByte('0')
			hasWildcards = true
		}
	}
	return v.String(), m.String(), hasWildcards
}

// GetBoundaryCells parses BOUNDARY_REGISTER into cells sorted by number.
func (e *Entity) GetBoundaryCells() ([]BoundaryCell, error) {
	attr := e.getAttributeSpec("BOUNDARY_REGISTER")
	if attr == nil || attr.Is == nil {
		return nil, fmt.Errorf("bsdl: BOUNDARY_REGISTER attribute missing")
	}
	entries, err := scanBoundaryEntries(attr.Is.GetConcatenatedString())
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("bsdl: BOUNDARY_REGISTER is empty")
	}

	cells := make([]BoundaryCell, 0, len(entries))
	for _, ent := range entries {
		if len(ent.fields) < 4 {
			return nil, fmt.Errorf("bsdl: boundary entry %d has %d fields, want at least 4", ent.number, len(ent.fields))
		}
		cell := BoundaryCell{
			Number:   ent.number,
			CellType: strings.ToUpper(ent.fields[0]),
			Port:     ent.fields[1],
			Function: strings.ToUpper(ent.fields[2]),
			Safe:     strings.ToUpper(ent.fields[3]),
			Control:  -1,
			Enable:   -1,
			Disable:  -1,
		}
		if len(ent.fields) >= 5 {
			if v, ok := parseOptionalInt(ent.fields[4]); ok {
				cell.Control = v
			}
		}
		if len(ent.fields) >= 6 {
			if v, ok := parseOptionalInt(ent.fields[5]); ok && (v == 0 || v == 1) {
				cell.Disable = v
				cell.Enable = 1 - v
			}
		}
		if len(ent.fields) >= 7 {
			cell.DisableResult = strings.ToUpper(ent.fields[6])
		}
		cells = append(cells, cell)
	}

	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Number < cells[j].Number
	})
	return cells, nil
}

type boundaryEntry struct {
	number int
	fields []string
}

// scanBoundaryEntries splits "num (f0, f1, ...), num (...)" respecting
// nested parentheses, so indexed ports like PE(0) survive intact.
func scanBoundaryEntries(raw string) ([]boundaryEntry, error) {
	var out []boundaryEntry
	i := 0
	for {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == ',') {
			i++
		}
		if i >= len(raw) {
			return out, nil
		}

		start := i
		for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("bsdl: BOUNDARY_REGISTER: expected cell number at %q", excerpt(raw, start))
		}
		number, err := strconv.Atoi(raw[start:i])
		if err != nil {
			return nil, fmt.Errorf("bsdl: BOUNDARY_REGISTER: cell number %q: %w", raw[start:i], err)
		}

		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] != '(' {
			return nil, fmt.Errorf("bsdl: BOUNDARY_REGISTER: cell %d: expected '('", number)
		}
		i++

		var fields []string
		depth := 1
		fieldStart := i
		for depth > 0 {
			if i >= len(raw) {
				return nil, fmt.Errorf("bsdl: BOUNDARY_REGISTER: cell %d: unterminated entry", number)
			}
			switch raw[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					fields = append(fields, strings.TrimSpace(raw[fieldStart:i]))
				}
			case ',':
				if depth == 1 {
					fields = append(fields, strings.TrimSpace(raw[fieldStart:i]))
					fieldStart = i + 1
				}
			}
			i++
		}
		out = append(out, boundaryEntry{number: number, fields: fields})
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func excerpt(s string, at int) string {
	end := at + 16
	if end > len(s) {
		end = len(s)
	}
	return s[at:end]
}

// Device converts the entity into the generator's device model.
func (e *Entity) Device() (*Device, error) {
	dev := &Device{
		Name:         e.Name,
		Instructions: make(map[string]string),
	}

	for _, attr := range e.GetAttributes() {
		if attr.Spec == nil || attr.Spec.Is == nil {
			continue
		}
		switch strings.ToUpper(attr.Spec.Name) {
		case "INSTRUCTION_LENGTH":
			if v, ok := attr.Spec.Is.GetInteger(); ok {
				dev.InstructionLength = v
			}
		case "BOUNDARY_LENGTH":
			if v, ok := attr.Spec.Is.GetInteger(); ok {
				dev.BoundaryLength = v
			}
		case "IDCODE_REGISTER":
			value, mask, wild := ParseBinaryString(attr.Spec.Is.GetConcatenatedString())
			hex, err := bitvec.BinToHex(value)
			if err != nil {
				return nil, fmt.Errorf("bsdl: %s IDCODE_REGISTER: %w", e.Name, err)
			}
			dev.IDCode = hex
			if wild {
				if dev.IDCodeMask, err = bitvec.BinToHex(mask); err != nil {
					return nil, fmt.Errorf("bsdl: %s IDCODE_REGISTER: %w", e.Name, err)
				}
			}
		case "TAP_SCAN_CLOCK":
			if len(attr.Spec.Is.Terms) > 0 {
				if t := attr.Spec.Is.Terms[0].Tuple; t != nil && len(t.Values) > 0 {
					if f, ok := t.Values[0].GetNumber(); ok {
						dev.MaxTCK = f
					}
				}
			}
		}
	}

	for _, inst := range e.GetInstructionOpcodes() {
		op := inst.Opcodes[0]
		if strings.ContainsAny(op, "Xx") {
			// wildcard opcodes cannot be shifted
			continue
		}
		hex, err := bitvec.BinToHex(op)
		if err != nil {
			return nil, fmt.Errorf("bsdl: %s opcode %s: %w", e.Name, inst.Name, err)
		}
		dev.Instructions[strings.ToLower(inst.Name)] = hex
	}

	cells, err := e.GetBoundaryCells()
	if err != nil {
		return nil, fmt.Errorf("bsdl: %s: %w", e.Name, err)
	}
	dev.Cells = cells
	return dev, nil
}

// GetPinMap returns signal to package pin assignments from the
// PIN_MAP_STRING constants. Vector ports map to a list "(1, 2, 3)".
func (e *Entity) GetPinMap() map[string]string {
	pinMap := make(map[string]string)
	for _, attr := range e.GetAttributes() {
		if attr.Constant == nil || !strings.EqualFold(attr.Constant.Type, "PIN_MAP_STRING") {
			continue
		}
		str := attr.Constant.Value.GetConcatenatedString()
		depth := 0
		start := 0
		for i := 0; i <= len(str); i++ {
			if i < len(str) {
				switch str[i] {
				case '(':
					depth++
					continue
				case ')':
					depth--
					continue
				case ',':
					if depth > 0 {
						continue
					}
				default:
					continue
				}
			}
			entry := strings.TrimSpace(str[start:i])
			start = i + 1
			if signal, pin, ok := strings.Cut(entry, ":"); ok {
				pinMap[strings.TrimSpace(signal)] = strings.TrimSpace(pin)
			}
		}
	}
	return pinMap
}

func splitAndTrim(body string) []string {
	parts := strings.Split(body, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseOptionalInt(val string) (int, bool) {
	if val == "*" || strings.EqualFold(val, "X") {
		return -1, false
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return -1, false
	}
	return parsed, true
}

func (e *Entity) getAttributeSpec(name string) *AttributeSpec {
	for _, attr := range e.GetAttributes() {
		if attr.Spec != nil && strings.EqualFold(attr.Spec.Name, name) {
			return attr.Spec
		}
	}
	return nil
}
