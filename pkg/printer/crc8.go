package printer

// CRC-8 with polynomial 0x07, zero init, no reflection. Every framed
// command carries this checksum over its payload.

var crc8Table [256]byte

func init() {
	for i := 0; i < 256; i++ {
		crc := byte(i)
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
		crc8Table[i] = crc
	}
}

// checksum returns the CRC-8 of data.
func checksum(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc = crc8Table[crc^b]
	}
	return crc
}
