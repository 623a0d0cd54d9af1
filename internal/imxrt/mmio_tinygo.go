//go:build tinygo

// ABOUTME: Volatile memory-mapped register access on the target
// ABOUTME: Backs RegisterFile with TinyGo's runtime/volatile loads and stores
package imxrt

import (
	"device/arm"
	"runtime/volatile"
	"unsafe"
)

// MMIO accesses the physical register space
type MMIO struct{}

func (MMIO) Load32(addr uint32) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (MMIO) Store32(addr uint32, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), v)
}

func (MMIO) Load16(addr uint32) uint16 {
	return volatile.LoadUint16((*uint16)(unsafe.Pointer(uintptr(addr))))
}

func (MMIO) Store16(addr uint32, v uint16) {
	volatile.StoreUint16((*uint16)(unsafe.Pointer(uintptr(addr))), v)
}

func (MMIO) Store8(addr uint32, v uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(uintptr(addr))), v)
}

func (MMIO) Barrier() {
	arm.Asm("dsb 0xF")
	arm.Asm("isb 0xF")
}
