package binfmt

import "x366/isa"

// Header mirrors the fixed fields of the binary container's first 0x20
// bytes.
type Header struct {
	MemorySize     uint16
	SectionsOffset uint32 // 0 = no sections area
	BreakPointer   uint16
	CodeBoundary   uint16
}

// WriteHeader renders h into a fresh isa.HeaderSize-byte array, with the
// signature and all reserved bytes zeroed as required.
func WriteHeader(h Header) [isa.HeaderSize]byte {
	var b [isa.HeaderSize]byte
	copy(b[isa.HeaderSignatureOffset:], isa.Signature)
	b[isa.HeaderMemSizeOffset] = byte(h.MemorySize >> 8)
	b[isa.HeaderMemSizeOffset+1] = byte(h.MemorySize)
	b[isa.HeaderSectionsOffOffset] = byte(h.SectionsOffset >> 24)
	b[isa.HeaderSectionsOffOffset+1] = byte(h.SectionsOffset >> 16)
	b[isa.HeaderSectionsOffOffset+2] = byte(h.SectionsOffset >> 8)
	b[isa.HeaderSectionsOffOffset+3] = byte(h.SectionsOffset)
	b[isa.HeaderBreakPtrOffset] = byte(h.BreakPointer >> 8)
	b[isa.HeaderBreakPtrOffset+1] = byte(h.BreakPointer)
	b[isa.HeaderCodeBoundaryOffset] = byte(h.CodeBoundary >> 8)
	b[isa.HeaderCodeBoundaryOffset+1] = byte(h.CodeBoundary)
	return b
}

// ParseHeader validates the signature and decodes the fixed header fields.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < isa.HeaderSize {
		return Header{}, &TruncatedHeaderError{Len: len(b)}
	}
	var sig [8]byte
	copy(sig[:], b[isa.HeaderSignatureOffset:isa.HeaderSignatureOffset+isa.HeaderSignatureLen])
	if string(sig[:]) != isa.Signature {
		return Header{}, &BadSignatureError{Got: sig}
	}
	h := Header{
		MemorySize:     uint16(b[isa.HeaderMemSizeOffset])<<8 | uint16(b[isa.HeaderMemSizeOffset+1]),
		SectionsOffset: uint32(b[isa.HeaderSectionsOffOffset])<<24 | uint32(b[isa.HeaderSectionsOffOffset+1])<<16 | uint32(b[isa.HeaderSectionsOffOffset+2])<<8 | uint32(b[isa.HeaderSectionsOffOffset+3]),
		BreakPointer:   uint16(b[isa.HeaderBreakPtrOffset])<<8 | uint16(b[isa.HeaderBreakPtrOffset+1]),
		CodeBoundary:   uint16(b[isa.HeaderCodeBoundaryOffset])<<8 | uint16(b[isa.HeaderCodeBoundaryOffset+1]),
	}
	if !isa.IsValidMemorySize(int(h.MemorySize)) {
		return Header{}, &UnsupportedMemorySizeError{Size: int(h.MemorySize)}
	}
	return h, nil
}

// BuildOptions assembles a complete container image.
type BuildOptions struct {
	CodeAndData  []byte // contiguous code then data, starting at isa.HeaderSize
	MemorySize   uint16
	BreakPointer uint16
	CodeBoundary uint16
	Sections     []Section // empty -> no sections area, SectionsOffset=0
}

// Build renders a full container: header, code/data segment, and optional
// sections area.
func Build(opts BuildOptions) []byte {
	var sectionsOffset uint32
	body := EncodeSections(opts.Sections)
	if len(opts.Sections) > 0 {
		sectionsOffset = uint32(isa.HeaderSize + len(opts.CodeAndData))
	}

	header := WriteHeader(Header{
		MemorySize:     opts.MemorySize,
		SectionsOffset: sectionsOffset,
		BreakPointer:   opts.BreakPointer,
		CodeBoundary:   opts.CodeBoundary,
	})

	out := make([]byte, 0, isa.HeaderSize+len(opts.CodeAndData)+len(body))
	out = append(out, header[:]...)
	out = append(out, opts.CodeAndData...)
	if len(opts.Sections) > 0 {
		out = append(out, body...)
	}
	return out
}
