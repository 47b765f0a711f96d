package helpers

// ShortAddress abbreviates an address for display: the first 6 characters,
// "...", and the last 4. Strings too short to abbreviate are returned as-is.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
