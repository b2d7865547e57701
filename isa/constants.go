package isa

// Signature is the fixed 8-byte binary container magic.
const Signature = "Go Cats!"

// Header field offsets within the binary container.
const (
	HeaderSignatureOffset    = 0x00
	HeaderSignatureLen       = 8
	HeaderMemSizeOffset      = 0x09
	HeaderSectionsOffOffset  = 0x0C
	HeaderBreakPtrOffset     = 0x10
	HeaderCodeBoundaryOffset = 0x12
	HeaderSize               = 0x20 // code starts here
)

// Section types for the TLV sections area.
const (
	SectionEnd   byte = 0x00
	SectionDebug byte = 0x01
)

// ValidMemorySizes are the only sizes a binary container or runtime memory
// may declare.
var ValidMemorySizes = [...]int{1024, 2048, 4096, 8192, 16384}

// IsValidMemorySize reports whether size is one of the five allowed sizes.
func IsValidMemorySize(size int) bool {
	for _, v := range ValidMemorySizes {
		if v == size {
			return true
		}
	}
	return false
}

// Reserved zero region: addresses [0, ReservedEnd) are zeroed at load and
// behaviorally off-limits to user programs.
const ReservedEnd = 0x0020

// Framebuffer memory window.
const (
	FramebufferStart = 0x4000
	FramebufferSize  = 5760 // 160*144 pixels, four 2-bit pixels per byte; see the display package for the packing scheme
	FramebufferEnd   = FramebufferStart + FramebufferSize
)

// Display geometry backing the framebuffer window.
const (
	DisplayWidth  = 160
	DisplayHeight = 144
)

// DefaultCodeStart is where pass-1 address assignment begins.
const DefaultCodeStart = 0x0020

// MaxUndoDepth bounds the step-back journal.
const MaxUndoDepth = 100

// MaxPrintStringLen caps SYSCALL PRINT_STRING's scan for a NUL terminator.
const MaxPrintStringLen = 1000
