package corpus

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dealcipher/udc/money"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the embedded, filesystem-free alternative to
// XMLRepository: rule profiles are rows in a local SQLite database rather
// than entries in a hand-edited XML file. Both ultimately hand resolution
// off to a StaticRepository snapshot loaded at open time — the rule corpus
// changes rarely enough that reloading per-request is unnecessary, and a
// static in-memory snapshot keeps RuleProfile lookups allocation-free on
// the hot path.
type SQLiteRepository struct {
	db *sql.DB
	*StaticRepository
}

// OpenSQLiteRepository opens (or creates) the rule corpus database at path
// and loads its full profile snapshot into memory.
func OpenSQLiteRepository(path string, fallback func(StateCode, DealMode) RuleProfile) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("corpus: open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("corpus: ping sqlite: %w", err)
	}
	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("corpus: migrate sqlite: %w", err)
	}

	profiles, err := loadSQLiteProfiles(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db, StaticRepository: NewStaticRepository(profiles, nil, fallback)}, nil
}

// Close closes the underlying database connection.
func (r *SQLiteRepository) Close() error { return r.db.Close() }

func migrateSQLite(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rule_profiles (
			state TEXT NOT NULL,
			mode TEXT NOT NULL,
			tax_type TEXT NOT NULL,
			state_rate TEXT NOT NULL DEFAULT '0',
			default_combined_rate TEXT NOT NULL DEFAULT '0',
			district_rate TEXT NOT NULL DEFAULT '0',
			trade_in_reduces_basis INTEGER NOT NULL DEFAULT 0,
			rebates_reduce_basis INTEGER NOT NULL DEFAULT 0,
			doc_fee_taxable INTEGER NOT NULL DEFAULT 0,
			offers_reciprocity INTEGER NOT NULL DEFAULT 0,
			credit_type TEXT NOT NULL DEFAULT 'no_credit',
			version TEXT NOT NULL DEFAULT '',
			effective_date TEXT NOT NULL DEFAULT '1970-01-01',
			active INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (state, mode)
		)
	`)
	return err
}

func loadSQLiteProfiles(db *sql.DB) ([]RuleProfile, error) {
	rows, err := db.Query(`
		SELECT state, mode, tax_type, state_rate, default_combined_rate, district_rate,
		       trade_in_reduces_basis, rebates_reduce_basis, doc_fee_taxable,
		       offers_reciprocity, credit_type, version, effective_date, active
		FROM rule_profiles
	`)
	if err != nil {
		return nil, fmt.Errorf("corpus: query rule_profiles: %w", err)
	}
	defer rows.Close()

	var profiles []RuleProfile
	for rows.Next() {
		var (
			state, mode, taxType                                     string
			stateRate, combinedRate, districtRate                    string
			tradeReduces, rebatesReduce, docTaxable, offersReciprocity int
			creditType, version, effectiveDate                       string
			active                                                   int
		)
		if err := rows.Scan(&state, &mode, &taxType, &stateRate, &combinedRate, &districtRate,
			&tradeReduces, &rebatesReduce, &docTaxable, &offersReciprocity, &creditType,
			&version, &effectiveDate, &active); err != nil {
			return nil, fmt.Errorf("corpus: scan rule_profiles row: %w", err)
		}

		effDate, err := time.Parse("2006-01-02", effectiveDate)
		if err != nil {
			effDate = time.Unix(0, 0).UTC()
		}

		profiles = append(profiles, RuleProfile{
			StateCode: StateCode(state),
			Mode:      DealMode(mode),
			TaxType:   SpecialTaxType(taxType),
			Rates: TaxRates{
				StateRate:           sqliteRate(stateRate),
				DefaultCombinedRate: sqliteRate(combinedRate),
				DistrictRate:        sqliteRate(districtRate),
			},
			BaseRules: BaseRules{
				TradeInReducesBasis: tradeReduces != 0,
				RebatesReduceBasis:  rebatesReduce != 0,
				DocFeeTaxable:       docTaxable != 0,
			},
			Ancillaries: AncillaryRules{DefaultProductTaxable: true},
			Reciprocity: ReciprocityRules{
				OffersReciprocity: offersReciprocity != 0,
				CreditType:        ReciprocityType(creditType),
				FullCreditStates:  map[StateCode]bool{},
			},
			Meta: ProfileMeta{
				Version:       version,
				EffectiveDate: effDate,
				Source:        "sqlite_rule_corpus",
				Active:        active != 0,
			},
		})
	}
	return profiles, rows.Err()
}

func sqliteRate(s string) money.Rate {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return money.ZeroRate
	}
	return money.NewRate(d)
}
