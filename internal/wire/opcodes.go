package wire

// MsgCategory distinguishes an FM API request from its response,
// carried in the low bit of the FM API header's first byte.
type MsgCategory uint8

const (
	CategoryRequest  MsgCategory = 0
	CategoryResponse MsgCategory = 1
)

// EmMsgType distinguishes Emulator API requests, responses and events.
type EmMsgType uint8

const (
	EmTypeRequest  EmMsgType = 0
	EmTypeResponse EmMsgType = 1
	EmTypeEvent    EmMsgType = 2
)

// FM API opcode families occupy the high byte of the 16-bit opcode;
// the low byte selects the command within the family. This mirrors the
// real CXL FM API's Command Set / Command split (PSC Identify = 0x5100).
const (
	FamilyISC uint16 = 0x01 << 8 // Information & Status Commands
	FamilyPSC uint16 = 0x51 << 8 // Physical Switch Configuration
	FamilyVSC uint16 = 0x52 << 8 // Virtual Switch Configuration
	FamilyMPC uint16 = 0x53 << 8 // MLD Port Commands
	FamilyMCC uint16 = 0x54 << 8 // MLD Component Commands (tunnel-only)
)

// ISC opcodes.
const (
	OpISCIdentify     uint16 = FamilyISC | 0x00
	OpISCBOS          uint16 = FamilyISC | 0x01
	OpISCMsgLimitGet  uint16 = FamilyISC | 0x02
	OpISCMsgLimitSet  uint16 = FamilyISC | 0x03
)

// PSC opcodes.
const (
	OpPSCIdentifySwitch uint16 = FamilyPSC | 0x00
	OpPSCGetPortState   uint16 = FamilyPSC | 0x01
	OpPSCPortControl    uint16 = FamilyPSC | 0x02
	OpPSCConfig         uint16 = FamilyPSC | 0x03
)

// VSC opcodes.
const (
	OpVSCInfo   uint16 = FamilyVSC | 0x00
	OpVSCBind   uint16 = FamilyVSC | 0x01
	OpVSCUnbind uint16 = FamilyVSC | 0x02
	OpVSCAER    uint16 = FamilyVSC | 0x03
)

// MPC opcodes.
const (
	OpMPCConfig uint16 = FamilyMPC | 0x00
	OpMPCMemory uint16 = FamilyMPC | 0x01
	OpMPCTunnel uint16 = FamilyMPC | 0x02
)

// MCC opcodes — dispatched only from inside a tunneled MPC message.
const (
	OpMCCInfo              uint16 = FamilyMCC | 0x00
	OpMCCGetLDAllocations  uint16 = FamilyMCC | 0x01
	OpMCCSetLDAllocations  uint16 = FamilyMCC | 0x02
	OpMCCGetQoSControl     uint16 = FamilyMCC | 0x03
	OpMCCSetQoSControl     uint16 = FamilyMCC | 0x04
	OpMCCGetQoSStatus      uint16 = FamilyMCC | 0x05
	OpMCCGetQoSAllocatedBW uint16 = FamilyMCC | 0x06
	OpMCCSetQoSAllocatedBW uint16 = FamilyMCC | 0x07
	OpMCCGetQoSBWLimit     uint16 = FamilyMCC | 0x08
	OpMCCSetQoSBWLimit     uint16 = FamilyMCC | 0x09
)

// Emulator API opcodes occupy their own, much smaller, opcode space.
const (
	OpEMListDevices uint16 = 0x01
	OpEMConnect     uint16 = 0x02
	OpEMDisconnect  uint16 = 0x03
	OpEMEvent       uint16 = 0x04
)

// Side selects which payload variant (request or response) to decode
// for a given opcode — the same opcode maps to two distinct wire shapes.
type Side uint8

const (
	SideRequest Side = iota
	SideResponse
)

// MCTPTypeCCI is the MCTP message type tag identifying a CXL Component
// Command Interface sub-message, used to validate TMC inner messages.
const MCTPTypeCCI uint8 = 0x08

// LDIDNone is the sentinel LDID meaning "bind the whole port, not an LD".
const LDIDNone uint16 = 0xFFFF
