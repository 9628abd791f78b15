// Package corpus defines the rule-profile schema — the "key" of the tax
// cipher — and the repositories that resolve a (state, deal mode,
// effective date) triplet to a concrete RuleProfile.
//
// Population of the 50-state corpus is data, not engineering: this package
// fixes the schema and ships a small set of representative profiles
// (covering every special-tax and reciprocity case named in the
// specification) rather than a hand-written factory function per state.
// Production deployments load the full corpus from XMLRepository or
// SQLiteRepository, hot-swapping the whole corpus between runs; the core
// pipeline never mutates a loaded profile.
package corpus
