package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable representation of the bytecode
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))

	// Print line number, or a continuation marker
	line := chunk.SpanAt(offset).Line
	if offset > 0 && line == chunk.SpanAt(offset-1).Line {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", line))
	}

	def, err := Lookup(chunk.Code[offset])
	if err != nil {
		sb.WriteString(fmt.Sprintf("??? (%d)\n", chunk.Code[offset]))
		return offset + 1
	}

	if len(def.OperandWidths) == 0 {
		sb.WriteString(def.Name + "\n")
		return offset + 1
	}

	operands, read := ReadOperands(def, chunk.Code[offset+1:])
	sb.WriteString(fmt.Sprintf("%-8s %4d", def.Name, operands[0]))

	// Show the referenced value inline
	switch Opcode(chunk.Code[offset]) {
	case OP_CONST:
		if operands[0] < len(chunk.Constants) {
			sb.WriteString(fmt.Sprintf(" (%s)", chunk.Constants[operands[0]].Inspect()))
		}
	case OP_STRING:
		if operands[0] < len(chunk.Strings) {
			sb.WriteString(fmt.Sprintf(" (%q)", chunk.Strings[operands[0]]))
		}
	}
	sb.WriteString("\n")

	return offset + 1 + read
}
