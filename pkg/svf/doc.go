// Package svf writes Serial Vector Format programs for the board tests.
//
// A Program is the ordered list of SVF lines that becomes one test file.
// AddFPGAHeader starts every file with the player settings and an IDCODE
// check of the FPGA.
//
// # JTAG over SVF
//
// The microcontroller's TAP is not on the scan chain. Its TCK, TMS, TDI and
// TDO are wired to four FPGA pins, so the generator reaches it by loading
// the FPGA with EXTEST and bit-banging those pins through the FPGA boundary
// register. Every downstream clock costs two FPGA DR scans: one with TCK low
// presenting TMS and TDI, one with TCK high that also checks the captured
// TDO bit when a value is expected.
//
// Bridge emits these scans. It tracks the downstream TAP with a
// tap.StateMachine and refuses moves that do not start from the tracked
// state. SIR and SDR start and end in Run-Test/Idle and shift the least
// significant bit first.
//
// Replay reverses the process: it walks the rising TCK edges in a program
// and reports the IR and DR shifts the microcontroller would see.
package svf
