// Package analysis looks for periodic structure in per-frame series such
// as the link count of a stored run.
//
// A field with a still pointer settles into a steady drift, so its link
// count wanders slowly. A sweeping pointer stirs the field once per
// revolution and shows up as a peak in the spectrum:
//
//	period, ok := analysis.DominantPeriod(links)
//	if ok {
//	    fmt.Printf("stirred every %.0f frames\n", period)
//	}
package analysis
