// Package bsr (Boundary Scan Register) composes whole boundary-register
// images for the generated tests.
//
// Every composer starts from an all-zero vector of the device's boundary
// length and writes cells by number, so the result always has exactly
// BoundaryLength bits and serialises with bitvec.Vector.Hex.
//
// # Composers
//
//   - Frozen: every bonded pin's driver disabled, INTERNAL cells at their
//     safe value. The baseline of every JTAG bridge clock.
//   - Preload: every pin cell 0, drivers with a full disable spec turned
//     off. Loaded with SAMPLE before the FPGA enters EXTEST.
//   - Drive: one pin driven to v and every other pin to the complement,
//     only the target's driver enabled (RPi GPIO write).
//   - Read: the expected capture and mask for one pin (RPi GPIO read).
//   - MCDrive: the microcontroller image for one interconnect test, every
//     driver enabled and RESET held high.
//   - PinCheck: the FPGA-side expectation after MCDrive, checking every
//     mapped pin except the bridge and RESET.
//
// # Cell Roles
//
// A pin usually owns a data cell (INPUT, OUTPUT3 or BIDIR) and refers to a
// CONTROL cell that gates its output driver. Writing the cell's Disable
// value to the control cell tri-states the pin; writing Enable lets the
// data cell drive it. Cells without a port ("*") are either control cells
// or INTERNAL cells, and the latter are always held at their safe value
// with X read as 0.
package bsr
