// Package protocol implements the framing used between the host and a
// serial DAC bridge. Each frame is
//
//	[len][seq][payload...][crc hi][crc lo][0x7E]
//
// where len counts the whole frame, the high nibble of seq is always 0x10
// and the CRC covers len, seq and the payload.
package protocol

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
	MessageSeqMask     = 0x0F
)

// Bridge commands. The payload is [command][head][args...].
const (
	CmdDAC = 0x01 // args: one 2-byte DAC register write
	CmdRGB = 0x02 // args: red, green, blue
)
