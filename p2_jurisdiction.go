package udc

// noSalesTaxStates have no statewide sales tax on vehicle purchases.
var noSalesTaxStates = map[StateCode]bool{"MT": true, "OR": true, "NH": true, "DE": true}

// leaseTransactionStateGoverns: for leases, these states tax based on the
// transaction (dealership) state regardless of where the vehicle is
// garaged.
var leaseTransactionStateGoverns = map[StateCode]bool{"TX": true, "FL": true}

// leaseGaragingStateGoverns: for leases, these states tax based on where
// the vehicle is garaged, overriding the transaction state.
var leaseGaragingStateGoverns = map[StateCode]bool{
	"CA": true, "IL": true, "MA": true, "NJ": true, "NY": true, "PA": true,
}

// JurisdictionFlags are informational tags consulted by disclosure and
// reporting, not by the tax cipher itself.
type JurisdictionFlags struct {
	NoSalesTaxRegistration bool
	MilitaryException      bool
	CommercialRegistration bool
	SplitRegistration      bool
}

// JurisdictionContext is P2's resolution of the (home, transaction,
// garaging) triplet to a single governing state plus an optional secondary
// state for reciprocity evaluation.
type JurisdictionContext struct {
	Home             StateCode
	Transaction      StateCode
	Garaging         StateCode
	Governing        StateCode
	IsInterstate     bool
	Secondary        StateCode // empty when there is no secondary state
	Flags            JurisdictionFlags
}

// JurisdictionResolvedDeal bundles the routed deal with its resolved
// jurisdiction context.
type JurisdictionResolvedDeal struct {
	Deal         RoutedDeal
	Jurisdiction JurisdictionContext
}

func resolveJurisdiction(deal RoutedDeal) (JurisdictionResolvedDeal, error) {
	input := deal.Input.Input
	home := input.HomeState
	transaction := input.TransactionState
	garaging := input.GaragingState
	if home == "" || transaction == "" {
		return JurisdictionResolvedDeal{}, newValidationError("home_state/transaction_state", "both must be set")
	}

	governing, secondary := determineGoverningState(home, transaction, garaging, deal.Mode)

	ctx := JurisdictionContext{
		Home:         home,
		Transaction:  transaction,
		Garaging:     garaging,
		Governing:    governing,
		IsInterstate: secondary != "",
		Secondary:    secondary,
		Flags: JurisdictionFlags{
			NoSalesTaxRegistration: noSalesTaxStates[home],
			MilitaryException:      input.Customer.IsMilitary,
			CommercialRegistration: input.Customer.CustomerType == CustomerFleetCommercial || input.Customer.CustomerType == CustomerBusiness,
			SplitRegistration:      home != garaging,
		},
	}
	return JurisdictionResolvedDeal{Deal: deal, Jurisdiction: ctx}, nil
}

// determineGoverningState implements spec.md §4.3's algorithm. For
// Cash/Finance, the home state always governs; for Lease, three classes of
// state behavior apply (transaction-state-governs, garaging-state-governs,
// else home-state-governs), per open question (d)'s resolution: whichever
// state becomes secondary here is the one reciprocity credits against in
// P4, regardless of which class produced it.
func determineGoverningState(home, transaction, garaging StateCode, mode CalculationMode) (governing, secondary StateCode) {
	if mode != ModeLease {
		if home == transaction {
			return home, ""
		}
		return home, transaction
	}

	if leaseTransactionStateGoverns[transaction] {
		if home != transaction {
			return transaction, home
		}
		return transaction, ""
	}
	if leaseGaragingStateGoverns[garaging] {
		if transaction != garaging {
			return garaging, transaction
		}
		return garaging, ""
	}
	if home == transaction {
		return home, ""
	}
	return home, transaction
}
