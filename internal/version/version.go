// ABOUTME: Version and product identification constants
// ABOUTME: Reported in the control protocol hello and the UI header
package version

const (
	Version      = "0.3.0"
	Product      = "Resonate Tone"
	Manufacturer = "Resonate"
)

// String is the product name with its version, as shown in banners
func String() string {
	return Product + " v" + Version
}
