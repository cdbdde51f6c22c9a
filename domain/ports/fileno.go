package ports

// Reserved channel numbers, fixed by convention. Callers binding their
// own channels must not reuse them; doing so is not prevented but mixes
// semantics in undefined ways.
const (
	// Stdin is read-only private input from the host.
	Stdin uint32 = 0
	// Stdout is write-only private output, visible to host-local
	// tooling but excluded from the receipt.
	Stdout uint32 = 1
	// Stderr is write-only private output with the same visibility as
	// Stdout.
	Stderr uint32 = 2
	// Journal is write-only hashed output that becomes part of the
	// public receipt.
	Journal uint32 = 3
)
