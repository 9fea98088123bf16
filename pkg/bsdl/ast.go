package bsdl

import "strings"

// BSDLFile is the parse tree of one BSDL source. A file holds one entity.
type BSDLFile struct {
	Entity *Entity `@@`
}

// Entity is the top-level declaration:
//
//	entity NAME is ... end NAME;
type Entity struct {
	Name    string         `KwEntity @Ident KwIs`
	Generic *GenericClause `@@?`
	Port    *PortClause    `@@?`
	Decls   []*EntityDecl  `@@*`
	EndName string         `KwEnd ( KwEntity )? @Ident? Semicolon`
}

type EntityDecl struct {
	UseClause *UseClause `  @@`
	Attribute *Attribute `| @@`
}

// GetAttributes returns the entity's attribute and constant declarations.
func (e *Entity) GetAttributes() []*Attribute {
	var attrs []*Attribute
	for _, decl := range e.Decls {
		if decl.Attribute != nil {
			attrs = append(attrs, decl.Attribute)
		}
	}
	return attrs
}

// GenericClause holds generics such as
//
//	generic (PHYSICAL_PIN_MAP : string := "CABGA381");
type GenericClause struct {
	Generics []*Generic `KwGeneric LParen ( @@ ( Semicolon @@ )* )? RParen Semicolon`
}

type Generic struct {
	Name         string  `@Ident`
	Type         string  `Colon @( Ident | KwString | KwInteger | KwReal | KwBoolean )`
	DefaultValue *String `( Assign @@ )?`
}

// PortClause lists the logical ports. One declaration may name several
// ports: "TCK, TMS : in bit;".
type PortClause struct {
	Ports []*Port `KwPort LParen ( @@ ( Semicolon @@ )* Semicolon? )? RParen Semicolon`
}

type Port struct {
	Names []string  `@Ident ( Comma @Ident )*`
	Mode  string    `Colon @( KwIn | KwOut | KwInout | KwBuffer | KwLinkage )`
	Type  *PortType `@@`
}

type PortType struct {
	Name  string     `@( KwBit | KwBitVector )`
	Range *RangeSpec `@@?`
}

// RangeSpec is a bit_vector range, "(0 to 7)" or "(7 downto 0)".
type RangeSpec struct {
	Start     int    `LParen @Integer`
	Direction string `@Ident`
	End       int    `@Integer RParen`
}

// Width returns the number of bits the range spans.
func (r *RangeSpec) Width() int {
	if r.End >= r.Start {
		return r.End - r.Start + 1
	}
	return r.Start - r.End + 1
}

// UseClause is "use STD_1149_1_2001.all;".
type UseClause struct {
	Package string `KwUse @Ident`
	Dot     string `Dot @( Ident | KwAll ) Semicolon`
}

type Attribute struct {
	Constant *ConstantAttribute `  @@`
	Spec     *AttributeSpec     `| @@`
}

// ConstantAttribute is a constant declaration, in practice the
// PIN_MAP_STRING package maps.
type ConstantAttribute struct {
	Name  string      `KwConstant @Ident`
	Type  string      `Colon @Ident`
	Value *Expression `Assign @@ Semicolon`
}

// AttributeSpec is "attribute NAME of TARGET : class is VALUE;".
type AttributeSpec struct {
	Name       string      `KwAttribute @Ident`
	Of         string      `KwOf @Ident`
	EntityType string      `Colon @( Ident | KwEntity | "signal" | KwConstant )`
	Is         *Expression `KwIs @@ Semicolon`
}

// Expression is a term or a "&"-concatenation of terms.
type Expression struct {
	Terms []*ExpressionTerm `@@ ( Concat @@ )*`
}

type ExpressionTerm struct {
	String  *String  `  @@`
	Integer *int     `| @Integer`
	Real    *float64 `| @Real`
	Ident   *string  `| @Ident`
	Tuple   *Tuple   `| @@`
	Boolean *bool    `| ( @KwTrue | KwFalse )`
}

// Tuple is a parenthesised list such as (1.0e6, BOTH).
type Tuple struct {
	Values []*Expression `LParen @@ ( Comma @@ )* RParen`
}

type String struct {
	Value string `@String`
}

// GetValue returns the literal without its quotes.
func (s *String) GetValue() string {
	if len(s.Value) >= 2 && s.Value[0] == '"' && s.Value[len(s.Value)-1] == '"' {
		return s.Value[1 : len(s.Value)-1]
	}
	return s.Value
}

// GetConcatenatedString joins the string terms of a concatenation.
func (e *Expression) GetConcatenatedString() string {
	var b strings.Builder
	for _, term := range e.Terms {
		if term.String != nil {
			b.WriteString(term.String.GetValue())
		}
	}
	return b.String()
}

// GetInteger returns the value of a single-integer expression.
func (e *Expression) GetInteger() (int, bool) {
	if len(e.Terms) == 1 && e.Terms[0].Integer != nil {
		return *e.Terms[0].Integer, true
	}
	return 0, false
}

// GetNumber returns the value of a single integer or real term.
func (e *Expression) GetNumber() (float64, bool) {
	if len(e.Terms) != 1 {
		return 0, false
	}
	switch t := e.Terms[0]; {
	case t.Real != nil:
		return *t.Real, true
	case t.Integer != nil:
		return float64(*t.Integer), true
	}
	return 0, false
}
