// Package vm implements the hydor bytecode format and the stack-based
// virtual machine that executes it.
package vm

import "fmt"

// Opcode represents a single VM instruction
type Opcode byte

const (
	OP_HALT Opcode = iota + 1 // Stop execution
	OP_POP                    // Pop top of stack, record as last-popped value

	// Loads
	OP_CONST  // Push constant from pool (u16 index)
	OP_STRING // Push string table reference (u16 index)
	OP_NIL    // Push nil
	OP_TRUE   // Push true
	OP_FALSE  // Push false

	// Arithmetic
	OP_ADD // + (numeric add or string concat)
	OP_SUB // -
	OP_MUL // *
	OP_DIV // /
	OP_POW // ^

	// Unary
	OP_NEG // Unary minus, mutates top of stack in place
	OP_NOT // Truthiness flip, mutates top of stack in place

	// Comparison
	OP_LT // <
	OP_LE // <=
	OP_GT // >
	OP_GE // >=
	OP_EQ // ==
	OP_NE // !=
)

// Definition declares an opcode's mnemonic and the byte width of each
// operand following the opcode tag. The only operand width in use is a
// big-endian unsigned 16-bit index.
type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OP_HALT:   {"HALT", nil},
	OP_POP:    {"POP", nil},
	OP_CONST:  {"CONST", []int{2}},
	OP_STRING: {"STRING", []int{2}},
	OP_NIL:    {"NIL", nil},
	OP_TRUE:   {"TRUE", nil},
	OP_FALSE:  {"FALSE", nil},
	OP_ADD:    {"ADD", nil},
	OP_SUB:    {"SUB", nil},
	OP_MUL:    {"MUL", nil},
	OP_DIV:    {"DIV", nil},
	OP_POW:    {"POW", nil},
	OP_NEG:    {"NEG", nil},
	OP_NOT:    {"NOT", nil},
	OP_LT:     {"LT", nil},
	OP_LE:     {"LE", nil},
	OP_GT:     {"GT", nil},
	OP_GE:     {"GE", nil},
	OP_EQ:     {"EQ", nil},
	OP_NE:     {"NE", nil},
}

// Lookup returns the definition for an opcode byte.
func Lookup(op byte) (*Definition, error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

func (op Opcode) String() string {
	if def, ok := definitions[op]; ok {
		return def.Name
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

// Make encodes one instruction: the opcode tag followed by its operands
// at their declared widths. An operand width other than a declared one
// is an encoder bug, never a runtime condition, so it panics.
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}

	instructionLen := 1
	for _, w := range def.OperandWidths {
		instructionLen += w
	}

	instruction := make([]byte, instructionLen)
	instruction[0] = byte(op)

	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 2:
			instruction[offset] = byte(operand >> 8)
			instruction[offset+1] = byte(operand)
		default:
			panic(fmt.Sprintf("cannot make instruction %s with operand width %d", def.Name, width))
		}
		offset += width
	}

	return instruction
}

// ReadOperands decodes the operands of an instruction starting right
// after the opcode byte, returning the operand values and the number of
// bytes read. It is the inverse of Make.
func ReadOperands(def *Definition, ins []byte) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0

	for i, width := range def.OperandWidths {
		switch width {
		case 2:
			operands[i] = int(ReadUint16(ins, offset))
		default:
			panic(fmt.Sprintf("cannot read operand of %s with width %d", def.Name, width))
		}
		offset += width
	}

	return operands, offset
}

// ReadUint16 reads a big-endian u16 at offset.
func ReadUint16(ins []byte, offset int) uint16 {
	return uint16(ins[offset])<<8 | uint16(ins[offset+1])
}
