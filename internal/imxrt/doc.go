// ABOUTME: Package imxrt documentation
// ABOUTME: Register-level backend for the Teensy 4 audio path

// Package imxrt programs the i.MX RT1062 peripherals behind the clock and dma
// interfaces: the audio PLL and SAI1 clock root, SAI1 frame format and enables,
// one eDMA channel with its DMAMUX slot, and D-cache maintenance by line.
//
// All access goes through a RegisterFile. On the target MMIO provides
// volatile loads and stores; tests supply a map-backed fake.
package imxrt
