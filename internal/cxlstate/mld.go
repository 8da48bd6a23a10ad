package cxlstate

// Mld is the multi-logical-device state owned by a Type-3 Pooled port
// (or, for a catalog template, the prototype copied into one at
// attach time).
type Mld struct {
	MemorySize  uint64
	Num         uint8 // logical device count, 1..=MaxLD
	EPC         bool
	TTR         bool
	Granularity Granularity

	Rng1 [MaxLD]uint32
	Rng2 [MaxLD]uint32

	AllocBW  [MaxLD]uint8 // percent, 0..=100
	BWLimit  [MaxLD]uint8 // percent, 0..=100

	QoS QoSControl

	BPAvgPercent uint8

	// ConfigSpaces holds one owned config-space buffer per LD.
	ConfigSpaces []*ConfigSpace

	// Backing is non-nil when the Mld requested a memory-mapped
	// payload region (mmap = 1 on the template).
	Backing *BackingFile
}

// QoSControl holds an Mld's QoS-control scalars.
type QoSControl struct {
	EgressModeratePercent uint8
	EgressSeverePercent   uint8
	SampleInterval        uint8
	ReqCmpBasis           uint16
	CompletionInterval    uint8
}

// LDByteRange returns the byte-offset window an LD owns within the
// mapped backing store, per the granularity-scaled rng1/rng2 encoding.
func (m *Mld) LDByteRange(ldid uint16) (base, size uint64) {
	unit := m.Granularity.Bytes()
	base = unit * uint64(m.Rng1[ldid])
	max := unit * (uint64(m.Rng2[ldid]) + 1)
	return base, max - base
}

// clone returns a copy suitable for attaching a catalog template to a
// live port: the fixed-size arrays are copied by value, while
// ConfigSpaces and Backing are left nil for the caller to allocate.
func (m *Mld) clone() *Mld {
	if m == nil {
		return nil
	}
	c := *m
	c.ConfigSpaces = nil
	c.Backing = nil
	return &c
}
