package classify

import (
	"strings"

	"solana-trade-sentry/internal/solana"
)

// Known DEX program IDs. This is a closed, versioned set: unknown programs
// are treated as non-DEX, so a plain wallet-to-wallet transfer of the
// watched token never classifies as a trade. Matching is by substring to
// stay compatible with the historical behavior, which also makes any
// program ID containing "pump" count as pump.fun.
var dexProgramIDs = []string{
	"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc", // Orca Whirlpool
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8", // Raydium AMM V4
	"5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1", // Raydium AMM V5
	"JUP4Fb2cqiRUcaTHdrPC8h2gNsA2ETXiPDD33WcGuJB",  // Jupiter V4
	"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",  // Jupiter V6
	"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK", // Raydium CPMM
	"27haf8L6oxUeXrHrgEgsexjSY5hbVUWEmvv9Nyxg8vQv", // Raydium Stable
	"CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C", // Raydium CLMM
	"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P",  // pump.fun
	"rFqFJ9g7TGBD8Ed7TPDnvGKZ5pWLPDyxLcvcH2eRCtt",  // pump.fun bonding curve
	"pump",
}

// swapInstructionType is the parsed instruction type marker the node emits
// for recognized swap instructions.
const swapInstructionType = "swap"

// IsDexTransaction reports whether any top-level instruction targets a known
// DEX program or carries an explicit swap marker from the upstream parser.
func IsDexTransaction(msg *solana.TransactionMessage) bool {
	if msg == nil {
		return false
	}

	for _, inst := range msg.Instructions {
		if inst.ParsedType == swapInstructionType {
			return true
		}
		for _, dex := range dexProgramIDs {
			if strings.Contains(inst.ProgramID, dex) {
				return true
			}
		}
	}

	return false
}
