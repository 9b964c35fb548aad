package scout

// forEachCombination calls fn with every k-subset of {0..n-1} in lexicographic order.
// The idx slice is reused between calls; fn must copy it to keep it.
// Iteration stops at the first error fn returns.
func forEachCombination(n, k int, fn func(idx []int) error) error {
	if k <= 0 || k > n {
		return nil
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		if err := fn(idx); err != nil {
			return err
		}

		// find the rightmost index that can still move right
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return nil
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
