package ir

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MarshalText produces the canonical textual form of an operation subtree.
//
// The output is deterministic: attribute keys are sorted, string content is
// NFC normalized, and operations print in program order. It is the form
// compared by golden tests and stored alongside analysis runs.
func MarshalText(op *Operation) []byte {
	var b strings.Builder
	writeOp(&b, op, 0)
	return []byte(b.String())
}

func writeOp(b *strings.Builder, op *Operation, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)

	switch op.Name {
	case ModuleOpName:
		b.WriteString("module")
	case FuncOpName:
		b.WriteString("func @")
		b.WriteString(norm.NFC.String(op.SymName()))
		b.WriteByte('(')
		if body := op.Body(); body != nil {
			for i, arg := range body.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteByte('%')
				b.WriteString(arg.Name)
				b.WriteString(": ")
				b.WriteString(arg.Type.String())
			}
		}
		b.WriteByte(')')
		writeAttrs(b, op, SymNameAttr)
	default:
		if len(op.Results) > 0 {
			for i, res := range op.Results {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteByte('%')
				b.WriteString(res.Name)
			}
			b.WriteString(" = ")
		}
		b.WriteString(op.Name)
		b.WriteByte('(')
		for i, operand := range op.Operands {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('%')
			b.WriteString(operand.Name)
		}
		b.WriteByte(')')
		if len(op.Results) > 0 {
			b.WriteString(" : ")
			for i, res := range op.Results {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(res.Type.String())
			}
		}
		writeAttrs(b, op)
	}

	if len(op.Regions) == 0 {
		b.WriteByte('\n')
		return
	}
	for _, r := range op.Regions {
		b.WriteString(" {\n")
		for _, nested := range r.ops {
			writeOp(b, nested, depth+1)
		}
		b.WriteString(indent)
		b.WriteByte('}')
	}
	b.WriteByte('\n')
}

// writeAttrs renders " {k = v, ...}" with sorted keys, omitting the listed
// keys and producing nothing when no attributes remain.
func writeAttrs(b *strings.Builder, op *Operation, omit ...string) {
	keys := make([]string, 0, len(op.Attrs))
	for k := range op.Attrs {
		skip := false
		for _, o := range omit {
			if k == o {
				skip = true
				break
			}
		}
		if !skip {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	b.WriteString(" {")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(op.Attrs[k].String())
	}
	b.WriteByte('}')
}
