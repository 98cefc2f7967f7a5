// Package ystrlr estimates forensic Y-chromosomal kinship likelihood
// ratios: given a paternal pedigree, per-marker Y-STR mutation rates, and
// observed haplotypes, how much more likely is the evidence if the suspect
// is related through that pedigree than if he is an unrelated male?
//
// 🧬 What is ystrlr?
//
//	A deterministic, importance-sampled Monte Carlo engine built from small
//	focused packages:
//		• core      — markers, allele domains, multi-copy haplotypes
//		• pedigree  — validated father→child lineage graph, cached traversal
//		• meiosis   — stepwise mutation kernel + evidence-biased proposal
//		• simulate  — parallel importance-sampling iterations, log-space weights
//		• lr        — streaming LR estimator, standard error, effective sample size
//		• loader    — CSV/TGF readers for rates, pedigrees, haplotypes, frequencies
//
// ✨ Why choose ystrlr?
//
//   - Eager validation – every structural error surfaces before iteration one
//   - Reproducible – a fixed seed and worker count replay a run bit for bit
//   - Honest numbers – weight products in log space, skewed weights flagged
//     instead of silently trusted
//   - Extensible – functional options and per-iteration hooks everywhere
//
// Quick ASCII example:
//
//	    F            a latent founder F with two sons: K's haplotype is
//	   / \           known, S is the suspect matched against the evidence;
//	  K   S          simulate.Run estimates LR = P(match|pedigree) / P(match|random male)
//
// Dive into each package's doc.go for the model, the math, and worked
// examples, or run cmd/ystrlr against the flat input files.
//
//	go get github.com/katalvlaran/ystrlr
package ystrlr
