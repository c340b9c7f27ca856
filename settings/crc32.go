package settings

// crc32Poly is the conventional bit-reflected CRC-32 polynomial.
const crc32Poly = 0xEDB88320

// CRC32 calculates the reflected CRC-32 checksum guarding the settings
// record. The algorithm is bit-for-bit stable so records written by
// earlier firmware stay loadable after an update.
func CRC32(data []byte) uint32 {
	crc := uint32(0xFFFFFFFF)
	for _, b := range data {
		crc ^= uint32(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ crc32Poly
			} else {
				crc >>= 1
			}
		}
	}
	return crc ^ 0xFFFFFFFF
}
