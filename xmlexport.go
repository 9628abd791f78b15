package udc

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// WriteXML renders a UdcOutput as XML, following the element/attribute
// style of a disclosure-grade document: one root with child sections for
// the tax breakdown, the deal-type structure, disclosures, and the audit
// trace. Money and rate values are rendered via their String methods so
// the XML carries the same fixed-precision text a human-readable
// statement would.
func WriteXML(output UdcOutput, w io.Writer) error {
	doc := etree.NewDocument()
	root := doc.CreateElement("udc_output")
	root.CreateAttr("output_id", output.OutputID.String())
	root.CreateAttr("deal_id", output.DealID.String())
	root.CreateAttr("deal_type", string(output.DealType))
	root.CreateAttr("calculated_at", output.CalculatedAt.Format(timeLayoutISO))

	writeTaxBreakdown(root.CreateElement("tax_breakdown"), output.TaxBreakdown)
	writeStructure(root.CreateElement("structure"), output)
	writeDisclosures(root.CreateElement("disclosures"), output.Disclosures)
	writeAuditTrace(root.CreateElement("audit_trace"), output.AuditTrace)

	summary := root.CreateElement("summary")
	summary.SetText(output.Summary)

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

const timeLayoutISO = "2006-01-02T15:04:05Z07:00"

func writeTaxBreakdown(el *etree.Element, t TaxBreakdown) {
	el.CreateAttr("gross_tax", t.GrossTax.String())
	el.CreateAttr("reciprocity_credit", t.ReciprocityCredit.String())
	el.CreateAttr("net_tax", t.NetTax.String())
	el.CreateAttr("tax_base", t.TaxBase.String())
	el.CreateAttr("effective_rate", t.EffectiveRate.String())
	if t.SpecialTaxType != "" {
		el.CreateAttr("special_tax_type", t.SpecialTaxType)
	}

	items := el.CreateElement("line_items")
	for _, li := range t.LineItems {
		item := items.CreateElement("item")
		item.CreateAttr("level", string(li.Level))
		item.CreateAttr("name", li.Name)
		item.CreateAttr("rate", li.Rate.String())
		item.CreateAttr("taxable_base", li.TaxableBase.String())
		item.CreateAttr("tax_amount", li.TaxAmount.String())
		if li.IsCredit {
			item.CreateAttr("is_credit", "true")
		}
	}
}

func writeStructure(el *etree.Element, output UdcOutput) {
	switch {
	case output.CashStructure != nil:
		writeCashStructure(el.CreateElement("cash"), *output.CashStructure)
	case output.FinanceStructure != nil:
		writeFinanceStructure(el.CreateElement("finance"), *output.FinanceStructure)
		writeSchedule(el.CreateElement("amortization_schedule"), output.AmortizationSchedule)
	case output.LeaseStructure != nil:
		writeLeaseStructure(el.CreateElement("lease"), *output.LeaseStructure)
	}
}

func writeCashStructure(el *etree.Element, c CashStructure) {
	el.CreateElement("selling_price").SetText(c.SellingPrice.String())
	el.CreateElement("total_fees").SetText(c.TotalFees.String())
	el.CreateElement("fi_products").SetText(c.FiProducts.String())
	el.CreateElement("trade_credit").SetText(c.TradeCredit.String())
	el.CreateElement("rebates").SetText(c.Rebates.String())
	el.CreateElement("sales_tax").SetText(c.SalesTax.String())
	el.CreateElement("total_cash_price").SetText(c.TotalCashPrice.String())
}

func writeFinanceStructure(el *etree.Element, f FinanceStructure) {
	el.CreateElement("selling_price").SetText(f.SellingPrice.String())
	el.CreateElement("amount_financed").SetText(f.AmountFinanced.String())
	el.CreateElement("apr").SetText(f.APR.String())
	el.CreateElement("term_months").SetText(strconv.Itoa(f.TermMonths))
	el.CreateElement("monthly_payment").SetText(f.MonthlyPayment.String())
	el.CreateElement("total_of_payments").SetText(f.TotalOfPayments.String())
	el.CreateElement("finance_charge").SetText(f.FinanceCharge.String())
	el.CreateElement("total_sale_price").SetText(f.TotalSalePrice.String())
}

func writeLeaseStructure(el *etree.Element, l LeaseStructure) {
	el.CreateElement("msrp").SetText(l.MSRP.String())
	el.CreateElement("gross_cap_cost").SetText(l.GrossCapCost.String())
	el.CreateElement("adjusted_cap_cost").SetText(l.AdjustedCapCost.String())
	el.CreateElement("residual_value").SetText(l.ResidualValue.String())
	el.CreateElement("money_factor").SetText(l.MoneyFactor.String())
	el.CreateElement("term_months").SetText(strconv.Itoa(l.TermMonths))
	el.CreateElement("depreciation").SetText(l.Depreciation.String())
	el.CreateElement("rent_charge").SetText(l.RentCharge.String())
	el.CreateElement("base_monthly_payment").SetText(l.BaseMonthlyPayment.String())
	el.CreateElement("total_monthly_payment").SetText(l.TotalMonthlyPayment.String())
	el.CreateElement("due_at_signing").SetText(l.DueAtSigning.String())
	el.CreateElement("total_lease_cost").SetText(l.TotalLeaseCost.String())
}

func writeSchedule(el *etree.Element, schedule []amortizationEntryView) {
	for _, e := range schedule {
		row := el.CreateElement("payment")
		row.CreateAttr("number", strconv.Itoa(e.PaymentNumber))
		row.CreateAttr("due_date", e.DueDate.Format("2006-01-02"))
		row.CreateElement("payment").SetText(e.Payment.String())
		row.CreateElement("principal").SetText(e.Principal.String())
		row.CreateElement("interest").SetText(e.Interest.String())
		row.CreateElement("remaining_balance").SetText(e.RemainingBalance.String())
	}
}

func writeDisclosures(el *etree.Element, disclosures []Disclosure) {
	for _, d := range disclosures {
		item := el.CreateElement("disclosure")
		item.CreateAttr("code", d.Code)
		item.CreateAttr("category", d.Category)
		if d.SignatureRequired {
			item.CreateAttr("signature_required", "true")
		}
		item.CreateElement("title").SetText(d.Title)
		item.CreateElement("text").SetText(d.Text)
		regs := item.CreateElement("regulations")
		for _, r := range d.Regulations {
			regs.CreateElement("regulation").SetText(r)
		}
	}
}

func writeAuditTrace(el *etree.Element, trace AuditTrace) {
	el.CreateAttr("engine_version", trace.EngineVersion)
	el.CreateAttr("rule_profile_version", trace.RuleProfileVersion)
	el.CreateAttr("input_checksum", trace.InputChecksum)
	el.CreateAttr("output_checksum", trace.OutputChecksum)
	el.CreateAttr("calculated_at", trace.CalculatedAt.Format(timeLayoutISO))

	for _, e := range trace.Entries {
		entry := el.CreateElement("entry")
		entry.CreateAttr("phase", string(e.Phase))
		entry.CreateAttr("operation", e.Operation)
		if e.RuleApplied != "" {
			entry.CreateAttr("rule_applied", e.RuleApplied)
		}
		entry.SetText(e.Description)
	}
}

