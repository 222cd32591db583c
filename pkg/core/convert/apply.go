package convert

import "gaap_bridge/pkg/core/accounting"

// ApplyAdjustments folds the adjustment entries into the account list and
// returns a new list; the input is not mutated. Accounts are keyed by
// internal name. An entry targeting an existing account sets its amount to
// the entry's after-amount (assignment, so re-applying the same entries is
// a no-op) and appends the entry to the account's adjustment log. An entry
// with no matching account synthesizes a NEW account carrying it. Output
// order is first-seen: input accounts in input order, then synthesized
// accounts in entry order.
func ApplyAdjustments(accounts []accounting.ConvertedAccount, adjustments []accounting.AdjustmentEntry) []accounting.ConvertedAccount {
	byName := make(map[string]*accounting.ConvertedAccount, len(accounts))
	order := make([]string, 0, len(accounts))

	for _, acc := range accounts {
		copied := acc
		copied.Adjustments = []accounting.AdjustmentEntry{}
		if _, seen := byName[acc.InternalName]; !seen {
			order = append(order, acc.InternalName)
		}
		byName[acc.InternalName] = &copied
	}

	for _, adj := range adjustments {
		if acc, ok := byName[adj.TargetName]; ok {
			acc.Amount = adj.AfterAmount
			acc.Adjustments = append(acc.Adjustments, adj)
			continue
		}

		created := &accounting.ConvertedAccount{
			RawAccount: accounting.RawAccount{
				Name:   adj.TargetName,
				Amount: adj.AfterAmount,
			},
			InternalCode: accounting.CodeNew,
			InternalName: adj.TargetName,
			TargetCode:   accounting.CodeNew,
			Kind:         accounting.MappingOneToOne,
			Adjustments:  []accounting.AdjustmentEntry{adj},
		}
		byName[adj.TargetName] = created
		order = append(order, adj.TargetName)
	}

	result := make([]accounting.ConvertedAccount, 0, len(order))
	for _, name := range order {
		result = append(result, *byName[name])
	}
	return result
}
