package cardtext

// RemoveDuplicates returns cards with duplicates removed. Two cards are the
// same when their normalized fronts and backs match. The first occurrence wins
// and order is preserved. The input slice is not modified.
func RemoveDuplicates(cards []Card) []Card {
	type key struct{ front, back string }

	seen := make(map[key]struct{}, len(cards))
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		k := key{Normalize(c.Front), Normalize(c.Back)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}
