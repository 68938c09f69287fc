package insts

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Decoder turns assembly-like source lines into Instructions.
//
// One instruction per line; tokens are separated by whitespace and/or
// commas. Mnemonics and register names are case-insensitive. Lines that do
// not decode are reported as skipped rather than as errors.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// SkippedLine records a non-empty source line the decoder dropped.
type SkippedLine struct {
	Number int // 1-based line number
	Text   string
}

// DecodeLine decodes a single source line.
// Returns false for blank, malformed or unrecognized lines.
func (d *Decoder) DecodeLine(line string) (Instruction, bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
	})
	if len(fields) == 0 {
		return Instruction{}, false
	}

	mnemonic := strings.ToUpper(fields[0])
	switch mnemonic {
	case "L.D", "S.D":
		if len(fields) != 3 {
			return Instruction{}, false
		}
		reg, ok := parseFPReg(fields[1])
		if !ok {
			return Instruction{}, false
		}
		offset, base, ok := parseMemOperand(fields[2])
		if !ok {
			return Instruction{}, false
		}
		if mnemonic == "L.D" {
			return NewLoad(reg, offset, base), true
		}
		return NewStore(reg, offset, base), true

	case "ADD.D", "SUB.D", "MUL.D", "DIV.D":
		if len(fields) != 4 {
			return Instruction{}, false
		}
		var regs [3]FReg
		for i := range regs {
			r, ok := parseFPReg(fields[i+1])
			if !ok {
				return Instruction{}, false
			}
			regs[i] = r
		}
		return NewArith(arithOps[mnemonic], regs[0], regs[1], regs[2]), true
	}

	return Instruction{}, false
}

var arithOps = map[string]Op{
	"ADD.D": OpADDD,
	"SUB.D": OpSUBD,
	"MUL.D": OpMULD,
	"DIV.D": OpDIVD,
}

// DecodeString decodes every line of src, dropping lines that do not decode.
func (d *Decoder) DecodeString(src string) []Instruction {
	instructions, _, _ := d.DecodeReader(strings.NewReader(src))
	return instructions
}

// DecodeReader decodes every line from r in order.
// It returns the decoded instructions and the non-blank lines it skipped.
// The error is non-nil only if reading from r fails.
func (d *Decoder) DecodeReader(r io.Reader) ([]Instruction, []SkippedLine, error) {
	var (
		instructions []Instruction
		skipped      []SkippedLine
	)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()

		inst, ok := d.DecodeLine(text)
		if ok {
			instructions = append(instructions, inst)
			continue
		}
		if strings.TrimSpace(text) != "" {
			skipped = append(skipped, SkippedLine{Number: lineNum, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read source: %w", err)
	}

	return instructions, skipped, nil
}

// parseFPReg parses F<even 0..30> into an architectural index (numeral / 2).
func parseFPReg(token string) (FReg, bool) {
	token = strings.ToUpper(token)
	if !strings.HasPrefix(token, "F") {
		return NoReg, false
	}
	n, err := strconv.ParseUint(token[1:], 10, 8)
	if err != nil || n%2 != 0 || n > 30 {
		return NoReg, false
	}
	return FReg(n / 2), true
}

// parseIntReg parses R<0..31>.
func parseIntReg(token string) (IntReg, bool) {
	token = strings.ToUpper(token)
	if !strings.HasPrefix(token, "R") {
		return NoIntReg, false
	}
	n, err := strconv.ParseUint(token[1:], 10, 8)
	if err != nil || n >= NumIntRegs {
		return NoIntReg, false
	}
	return IntReg(n), true
}

// parseMemOperand parses "<signed offset>(R<n>)".
func parseMemOperand(token string) (int32, IntReg, bool) {
	open := strings.IndexByte(token, '(')
	if open < 0 {
		return 0, NoIntReg, false
	}
	rest := token[open+1:]
	closing := strings.IndexByte(rest, ')')
	if closing < 0 || closing != len(rest)-1 {
		return 0, NoIntReg, false
	}

	offset, err := strconv.ParseInt(token[:open], 10, 32)
	if err != nil {
		return 0, NoIntReg, false
	}
	base, ok := parseIntReg(rest[:closing])
	if !ok {
		return 0, NoIntReg, false
	}
	return int32(offset), base, true
}
