package protocol

// CRC16Init is the checksum seed of every frame
const CRC16Init = 0xFFFF

// CRC16 returns the frame checksum of data: CCITT polynomial, MCRF4XX
// variant (reflected, seeded with CRC16Init)
func CRC16(data []byte) uint16 {
	return CRC16Update(CRC16Init, data)
}

// CRC16Update folds data into a running checksum, so a frame can be
// checked while its bytes are still arriving
func CRC16Update(crc uint16, data []byte) uint16 {
	for _, b := range data {
		b ^= uint8(crc)
		b ^= b << 4
		w := uint16(b)
		crc = (w<<8 | crc>>8) ^ w>>4 ^ w<<3
	}
	return crc
}
