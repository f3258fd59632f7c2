package format

// Align4 returns n rounded up to the next token boundary.
//
//	Align4(0) = 0
//	Align4(5) = 8
//	Align4(8) = 8
func Align4(n int) int {
	return (n + TokenAlignmentMask) &^ TokenAlignmentMask
}
