package pathfind

// LabelSequence turns the target's index chain into labels, starting at source.
// An empty chain yields nil, meaning there is no path. chains is not modified.
func LabelSequence(idx Index, chains [][]int, source, target int) []string {
	if target < 0 || target >= len(chains) {
		return nil
	}
	chain := chains[target]
	if len(chain) == 0 {
		return nil
	}
	if chain[0] != source {
		chain = append([]int{source}, chain...)
	}

	labels := make([]string, len(chain))
	for i, p := range chain {
		labels[i] = idx.Label(p)
	}
	return labels
}
