package zip

// localBase separates local-stack addresses from global-stack
// addresses within a single flat integer address space, so that the
// ordering invariant in spec.md §8 ("global addresses are all
// considered older than local addresses") falls out of plain integer
// comparison: every local address is >= localBase, and no configured
// global-stack capacity comes close to that.
const localBase = 1 << 40

func isLocalAddr(addr int) bool { return addr >= localBase }
func toLocalIndex(addr int) int { return addr - localBase }
func fromLocalIndex(i int) int  { return localBase + i }
