// Package chip8 provides the CHIP-8 instruction table used by the assembler.
//
// # Instruction Table
//
// Every instruction form is a static entry of mnemonic, operand pattern and
// 16-bit opcode template. All instructions are 2 bytes and stored big-endian.
// Operand values are placed into the template fields:
//   - x: register index in bits 8-11
//   - y: register index in bits 4-7
//   - nnn: 12-bit address in bits 0-11
//   - kk: 8-bit immediate in bits 0-7
//   - n: 4-bit immediate in bits 0-3
//
// # Pattern Priority
//
// Forms of the same mnemonic are matched in table order and the first form
// whose operand shapes match is used. The table lists forms from the most
// specific to the least specific operand shape:
//  1. keyword operands (I, [I], DT, ST, K, F, HF, B, R) and the fixed V0 register
//  2. general registers V0-VF
//  3. immediates (address, byte, nibble), which also accept symbols
//
// Numbers and symbols only match immediate slots and registers never match
// immediate slots, so the match is decided by operand shape alone. Value range
// errors are reported for the matched form and never cause a fallback to
// another form.
//
// # Supported Operations
//
//   - Flow control: SYS, JP, CALL, RET, SE, SNE, SKP, SKNP
//   - Arithmetic and logic: ADD, SUB, SUBN, OR, AND, XOR, SHR, SHL, RND
//   - Memory, timers and input: LD in all register transfer forms
//   - Graphics: CLS, DRW
//   - SUPER-CHIP: SCD, SCU, SCR, SCL, EXIT, LOW, HIGH, LD HF, LD R
//   - Extensions: LD Vx, Vy, I (5xy1) splits I into two registers and
//     LD I, Vx, Vy (5xy2) packs two registers into I
package chip8
