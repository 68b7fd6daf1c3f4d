// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the ukern user machine.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Origin  uint32   // Address the program is assembled for.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	strings []string // String literals of the current line.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register numbers.
var regMap = map[string]int{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3, "r4": 4, "r5": 5, "r6": 6,
	"r7": 7, "r8": 8, "r9": 9, "r10": 10, "r11": 11, "r12": 12,
	"r13": REG_SP, "r14": REG_LR, "r15": REG_PC,
	"sp": REG_SP, "lr": REG_LR, "pc": REG_PC,
}

// branchMap maps branch mnemonics to conditions.
var branchMap = map[string]CodeCond{
	"b":   COND_AL,
	"beq": COND_EQ,
	"bne": COND_NE,
	"blt": COND_LT,
	"bge": COND_GE,
	"blo": COND_LO,
	"bhs": COND_HS,
}

// aluMap maps three operand instruction names.
var aluMap = map[string]CodeOp{
	"add":  OP_ADD,
	"sub":  OP_SUB,
	"and":  OP_AND,
	"orr":  OP_ORR,
	"ldr":  OP_LDR,
	"str":  OP_STR,
	"ldrb": OP_LDRB,
	"strb": OP_STRB,
}

var reLabel = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
var reChar = regexp.MustCompile(`'\\?[^']'`)
var reParen = regexp.MustCompile(`\$\([^\$]*\)`)
var reString = regexp.MustCompile(`"(\\.|[^"\\])*"`)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(strings.ReplaceAll(word, "_", ""), 0, 34)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)

	if invert {
		value = ^value
	}

	return
}

// operand decodes the second operand of an instruction.
// A label operand is returned in link and assembles as an immediate of zero.
func (asm *Assembler) operand(word string) (rm int, imm uint32, is_imm bool, link string, err error) {
	rm, ok := regMap[word]
	if ok {
		return
	}

	is_imm = true

	_, isLabel := asm.Label[word]
	if !isLabel && reLabel.MatchString(word) && word[0] != '.' {
		isLabel = true
	}
	if isLabel {
		link = word
		return
	}

	imm, err = asm.valueOf(word)
	return
}

// register decodes a register operand.
func (asm *Assembler) register(word string) (reg int, err error) {
	reg, ok := regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeUint(uint(value32))
	}
	err = nil
	for key, addr := range asm.Label {
		if reLabel.MatchString(key) && !strings.Contains(key, ".") {
			pred[key] = starlark.MakeUint(uint(addr))
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// stripComment removes a ';' comment that is not inside a string literal.
func stripComment(text string) string {
	quoted := false
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '\\':
			if quoted {
				n++
			}
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return text[:n]
			}
		}
	}

	return text
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Pull out "string" literals.
	asm.strings = asm.strings[:0]
	line = reString.ReplaceAllStringFunc(line, func(quoted string) string {
		str, _err := strconv.Unquote(quoted)
		if _err != nil {
			err = _err
			return quoted
		}
		asm.strings = append(asm.strings, str)
		return fmt.Sprintf(" \"%d ", len(asm.strings)-1)
	})
	if err != nil {
		err = ErrDirectiveSyntax
		return
	}

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	line = strings.NewReplacer(",", " ", "[", " ", "]", " ", "\t", " ").Replace(line)

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the address of the next opcode.
func (asm *Assembler) currentAddr() uint32 {
	if len(asm.Opcode) == 0 {
		return asm.Origin
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + uint32(len(last.Data))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]uint32, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		for _, link := range op.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			binary.LittleEndian.PutUint32(op.Data[link.Offset:], addr)
		}
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: slices.Clone(asm.Opcode),
		Labels:  maps.Clone(asm.Label),
	}

	return
}

// encoder accumulates the bytes and label links of one opcode.
type encoder struct {
	data  []byte
	links []Link
}

func (enc *encoder) word(value uint32, link string) {
	if len(link) != 0 {
		enc.links = append(enc.links, Link{Label: link, Offset: len(enc.data)})
	}
	enc.data = binary.LittleEndian.AppendUint32(enc.data, value)
}

func (enc *encoder) code(code Code, imm uint32, link string) {
	enc.word(uint32(code), "")
	if code.HasImm() {
		enc.word(imm, link)
	}
}

// encodeOp2 encodes an instruction with a register or immediate second operand.
func (asm *Assembler) encodeOp2(enc *encoder, op CodeOp, rd, rn int, word string) (err error) {
	rm, imm, is_imm, link, err := asm.operand(word)
	if err != nil {
		return
	}

	if is_imm {
		enc.code(MakeCodeImm(op, rd, rn), imm, link)
	} else {
		enc.code(MakeCode(op, rd, rn, rm), 0, "")
	}

	return
}

// string returns the string literal referenced by a word.
func (asm *Assembler) string(word string) (str string, err error) {
	if !strings.HasPrefix(word, "\"") {
		err = ErrDirectiveSyntax
		return
	}
	index, err := strconv.Atoi(word[1:])
	if err != nil || index >= len(asm.strings) {
		err = ErrDirectiveSyntax
		return
	}

	str = asm.strings[index]
	return
}

// parseDirective evaluates a data directive.
func (asm *Assembler) parseDirective(enc *encoder, words []string) (err error) {
	switch words[0] {
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var imm uint32
			var is_imm bool
			var link string
			_, imm, is_imm, link, err = asm.operand(word)
			if err != nil {
				return
			}
			if !is_imm {
				err = ErrDirectiveSyntax
				return
			}
			enc.word(imm, link)
		}
	case ".ascii", ".asciz":
		if len(words) != 2 {
			err = ErrDirectiveSyntax
			return
		}
		var str string
		str, err = asm.string(words[1])
		if err != nil {
			return
		}
		enc.data = append(enc.data, str...)
		if words[0] == ".asciz" {
			enc.data = append(enc.data, 0)
		}
	case ".space":
		if len(words) < 2 || len(words) > 3 {
			err = ErrDirectiveSyntax
			return
		}
		var size, fill uint32
		size, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if len(words) == 3 {
			fill, err = asm.valueOf(words[2])
			if err != nil {
				return
			}
		}
		enc.data = append(enc.data, slices.Repeat([]byte{byte(fill)}, int(size))...)
	case ".align":
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		align := uint32(4)
		if len(words) == 2 {
			align, err = asm.valueOf(words[1])
			if err != nil {
				return
			}
		}
		if align == 0 || align&(align-1) != 0 {
			err = ErrDirectiveSyntax
			return
		}
		addr := asm.currentAddr()
		pad := (align - addr%align) % align
		enc.data = append(enc.data, make([]byte, pad)...)
	default:
		err = ErrInstructionInvalid
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	enc := &encoder{}

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(enc.data) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Data: enc.data, Links: enc.links}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	if strings.HasPrefix(words[0], ".") {
		return asm.parseDirective(enc, words)
	}

	// Alternate syntax substitutions
	switch {
	case len(words) == 1 && words[0] == "ret":
		words = []string{"bx", "lr"}
	case len(words) == 1 && words[0] == "halt":
		// halt => spin on the current address
		halt := fmt.Sprintf("halt_%v_", lineno)
		asm.Label[halt] = asm.currentAddr()
		words = []string{"b", halt}
	default:
		// unchanged
	}

	argc := len(words) - 1
	need := func(n int) bool {
		switch {
		case argc < n:
			err = ErrOpcodeValueMissing
		case argc > n:
			err = ErrOpcodeExtraArgs
		}
		return err == nil
	}

	var rd, rn int

	switch words[0] {
	case "nop":
		if need(0) {
			enc.code(MakeCode(OP_NOP, 0, 0, 0), 0, "")
		}
	case "mov":
		if !need(2) {
			return
		}
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		err = asm.encodeOp2(enc, OP_MOV, rd, 0, words[2])
	case "cmp":
		if !need(2) {
			return
		}
		rn, err = asm.register(words[1])
		if err != nil {
			return
		}
		err = asm.encodeOp2(enc, OP_CMP, 0, rn, words[2])
	case "add", "sub", "and", "orr", "ldr", "str", "ldrb", "strb":
		op := aluMap[words[0]]
		if op == OP_LDR || op == OP_STR || op == OP_LDRB || op == OP_STRB {
			// Memory offset defaults to zero.
			if argc == 2 {
				words = append(slices.Clone(words), "0")
				argc++
			}
		}
		if !need(3) {
			return
		}
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		rn, err = asm.register(words[2])
		if err != nil {
			return
		}
		err = asm.encodeOp2(enc, op, rd, rn, words[3])
	case "b", "beq", "bne", "blt", "bge", "blo", "bhs":
		if !need(1) {
			return
		}
		var imm uint32
		var is_imm bool
		var link string
		_, imm, is_imm, link, err = asm.operand(words[1])
		if err != nil {
			return
		}
		if !is_imm {
			err = ErrTargetInvalid
			return
		}
		enc.code(MakeCodeBranch(OP_B, branchMap[words[0]]), imm, link)
	case "bl":
		if !need(1) {
			return
		}
		err = asm.encodeOp2(enc, OP_BL, 0, 0, words[1])
	case "bx":
		if !need(1) {
			return
		}
		err = asm.encodeOp2(enc, OP_BX, 0, 0, words[1])
	case "svc":
		if !need(1) {
			return
		}
		var id uint32
		id, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if id > CODE_SVC_MASK {
			err = ErrParseNumber(words[1])
			return
		}
		enc.code(MakeCodeSvc(id), 0, "")
	default:
		err = ErrInstructionInvalid
	}

	return
}
