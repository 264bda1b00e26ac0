// Package xbrltest holds a small synthetic 10-Q filing for tests: two statements,
// EPS labels, a footnote text fact, a dimensional context and a few deliberately
// broken references.
package xbrltest

import (
	"os"
	"path/filepath"
	"testing"
)

// Labels is the label linkbase.
const Labels = `<?xml version="1.0" encoding="UTF-8"?>
<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase" xmlns:xlink="http://www.w3.org/1999/xlink">
  <link:labelLink xlink:type="extended" xlink:role="http://www.xbrl.org/2003/role/link">
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Assets" xlink:label="loc_Assets"/>
    <link:label xlink:type="resource" xlink:label="lab_Assets" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Total assets</link:label>
    <link:label xlink:type="resource" xlink:label="lab_Assets" xlink:role="http://www.xbrl.org/2003/role/verboseLabel" xml:lang="en-US">Assets, verbose</link:label>
    <link:labelArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label" xlink:from="loc_Assets" xlink:to="lab_Assets"/>

    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Cash" xlink:label="loc_Cash"/>
    <link:label xlink:type="resource" xlink:label="lab_Cash" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Cash and cash equivalents</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_Cash" xlink:to="lab_Cash"/>

    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Liabilities" xlink:label="loc_Liabilities"/>
    <link:label xlink:type="resource" xlink:label="lab_Liabilities" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Total liabilities</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_Liabilities" xlink:to="lab_Liabilities"/>

    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Goodwill" xlink:label="loc_Goodwill"/>
    <link:label xlink:type="resource" xlink:label="lab_Goodwill" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Goodwill</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_Goodwill" xlink:to="lab_Goodwill"/>

    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Revenues" xlink:label="loc_Revenues"/>
    <link:label xlink:type="resource" xlink:label="lab_Revenues" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Revenues</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_Revenues" xlink:to="lab_Revenues"/>

    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_EarningsPerShareBasic" xlink:label="loc_EPSBasic"/>
    <link:label xlink:type="resource" xlink:label="lab_EPSBasic" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Earnings Per Share, Basic</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_EPSBasic" xlink:to="lab_EPSBasic"/>

    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_EarningsPerShareDiluted" xlink:label="loc_EPSDiluted"/>
    <link:label xlink:type="resource" xlink:label="lab_EPSDiluted" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Earnings Per Share, Diluted</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_EPSDiluted" xlink:to="lab_EPSDiluted"/>

    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_SharesOutstanding" xlink:label="loc_Shares"/>
    <link:label xlink:type="resource" xlink:label="lab_Shares" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Sharesoutstanding</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_Shares" xlink:to="lab_Shares"/>

    <link:loc xlink:type="locator" xlink:href="acme-20250331.xsd#acme_FootnoteText" xlink:label="loc_Footnote"/>
    <link:label xlink:type="resource" xlink:label="lab_Footnote" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Footnote reference</link:label>
    <link:labelArc xlink:type="arc" xlink:from="loc_Footnote" xlink:to="lab_Footnote"/>

    <link:loc xlink:type="locator" xlink:href="no-fragment.xsd" xlink:label="loc_Broken"/>
    <link:labelArc xlink:type="arc" xlink:from="loc_Broken" xlink:to="lab_Assets"/>
    <link:labelArc xlink:type="arc" xlink:from="loc_Assets" xlink:to="lab_Missing"/>
  </link:labelLink>
</link:linkbase>`

// Presentation is the presentation linkbase.
const Presentation = `<?xml version="1.0" encoding="UTF-8"?>
<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase" xmlns:xlink="http://www.w3.org/1999/xlink">
  <link:roleRef roleURI="http://acme.com/role/CondensedConsolidatedBalanceSheets" xlink:type="simple" xlink:href="acme-20250331.xsd#CondensedConsolidatedBalanceSheets"/>
  <link:roleRef roleURI="http://acme.com/role/CondensedConsolidatedStatementsofIncome" xlink:type="simple" xlink:href="acme-20250331.xsd#CondensedConsolidatedStatementsofIncome"/>
  <link:roleRef roleURI="http://acme.com/role/BalanceSheetParenthetical" xlink:type="simple" xlink:href="acme-20250331.xsd#CondensedConsolidatedBalanceSheetsParenthetical"/>
  <link:roleRef roleURI="http://acme.com/role/Undeclared" xlink:type="simple" xlink:href="acme-20250331.xsd#UndeclaredStatement"/>
  <link:presentationLink xlink:type="extended" xlink:role="http://acme.com/role/CondensedConsolidatedBalanceSheets">
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_StatementOfFinancialPositionAbstract" xlink:label="loc_BSAbstract"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Assets" xlink:label="loc_Assets"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Cash" xlink:label="loc_Cash"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Liabilities" xlink:label="loc_Liabilities"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_LiabilitiesAbstract" xlink:label="loc_LiabAbstract"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Goodwill" xlink:label="loc_Goodwill"/>
    <link:presentationArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/parent-child" xlink:from="loc_BSAbstract" xlink:to="loc_Assets" order="2"/>
    <link:presentationArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/parent-child" xlink:from="loc_BSAbstract" xlink:to="loc_Cash" order="1"/>
    <link:presentationArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/parent-child" xlink:from="loc_Assets" xlink:to="loc_Goodwill" order="1.0"/>
    <link:presentationArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/parent-child" xlink:from="loc_LiabAbstract" xlink:to="loc_Liabilities"/>
    <link:presentationArc xlink:type="arc" xlink:arcrole="http://www.xbrl.org/2003/arcrole/parent-child" xlink:from="loc_BSAbstract" xlink:to="loc_Unresolved" order="0"/>
  </link:presentationLink>
  <link:presentationLink xlink:type="extended" xlink:role="http://acme.com/role/CondensedConsolidatedStatementsofIncome">
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_IncomeStatementAbstract" xlink:label="loc_ISAbstract"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Revenues" xlink:label="loc_Revenues"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_EarningsPerShareBasic" xlink:label="loc_EPSBasic"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_EarningsPerShareDiluted" xlink:label="loc_EPSDiluted"/>
    <link:loc xlink:type="locator" xlink:href="acme-20250331.xsd#acme_FootnoteText" xlink:label="loc_Footnote"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_Cash" xlink:label="loc_Cash"/>
    <link:presentationArc xlink:type="arc" xlink:from="loc_ISAbstract" xlink:to="loc_Revenues" order="1"/>
    <link:presentationArc xlink:type="arc" xlink:from="loc_ISAbstract" xlink:to="loc_EPSBasic" order="3"/>
    <link:presentationArc xlink:type="arc" xlink:from="loc_ISAbstract" xlink:to="loc_EPSDiluted" order="3"/>
    <link:presentationArc xlink:type="arc" xlink:from="loc_ISAbstract" xlink:to="loc_Footnote" order="4"/>
    <link:presentationArc xlink:type="arc" xlink:from="loc_ISAbstract" xlink:to="loc_Cash" order="2"/>
  </link:presentationLink>
  <link:presentationLink xlink:type="extended" xlink:role="http://acme.com/role/BalanceSheetParenthetical">
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_SharesOutstanding" xlink:label="loc_Shares"/>
    <link:loc xlink:type="locator" xlink:href="https://xbrl.fasb.org/us-gaap/2024/elts/us-gaap-2024.xsd#us-gaap_StatementOfFinancialPositionAbstract" xlink:label="loc_Abstract"/>
    <link:presentationArc xlink:type="arc" xlink:from="loc_Abstract" xlink:to="loc_Shares" order="1"/>
  </link:presentationLink>
</link:linkbase>`

// LongFootnote is a text fact longer than the 75 character display limit.
const LongFootnote = "See Note 5 - Commitments and Contingencies for a discussion of legal proceedings and related accruals."

// Instance is the instance document.
const Instance = `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns="http://www.xbrl.org/2003/instance" xmlns:us-gaap="http://fasb.org/us-gaap/2024" xmlns:acme="http://acme.com/20250331" xmlns:xbrldi="http://xbrl.org/2006/xbrldi" xmlns:iso4217="http://www.xbrl.org/2003/iso4217">
  <context id="c-1">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000000001</identifier></entity>
    <period><instant>2025-03-31</instant></period>
  </context>
  <context id="c-2">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000000001</identifier></entity>
    <period><instant>2024-12-31</instant></period>
  </context>
  <context id="c-3">
    <entity>
      <identifier scheme="http://www.sec.gov/CIK">0000000001</identifier>
      <segment><xbrldi:explicitMember dimension="us-gaap:StatementBusinessSegmentsAxis">acme:CloudMember</xbrldi:explicitMember></segment>
    </entity>
    <period><instant>2025-03-31</instant></period>
  </context>
  <context id="c-4">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000000001</identifier></entity>
    <period><startDate>2025-01-01</startDate><endDate>2025-03-31</endDate></period>
  </context>
  <context id="c-forever">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000000001</identifier></entity>
    <period><forever/></period>
  </context>
  <unit id="usd"><measure>iso4217:USD</measure></unit>

  <us-gaap:Cash contextRef="c-1" unitRef="usd" decimals="-3">1,234</us-gaap:Cash>
  <us-gaap:Cash contextRef="c-2" unitRef="usd" decimals="INF">(500)</us-gaap:Cash>
  <us-gaap:Assets contextRef="c-1" unitRef="usd" scale="6" decimals="0">100</us-gaap:Assets>
  <us-gaap:Assets contextRef="c-2" unitRef="usd" decimals="0">9000</us-gaap:Assets>
  <us-gaap:Assets contextRef="c-3" unitRef="usd" decimals="0">77</us-gaap:Assets>
  <us-gaap:Liabilities contextRef="c-1" unitRef="usd" decimals="0">4000</us-gaap:Liabilities>
  <us-gaap:Goodwill contextRef="c-1" unitRef="usd" decimals="0">300</us-gaap:Goodwill>
  <us-gaap:Goodwill contextRef="c-1" unitRef="usd" decimals="0">350</us-gaap:Goodwill>
  <us-gaap:Revenues contextRef="c-4" unitRef="usd" decimals="0">2500.5</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="c-5" unitRef="usd" decimals="0">2000</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="c-missing" unitRef="usd" decimals="0">999</us-gaap:Revenues>
  <us-gaap:EarningsPerShareBasic contextRef="c-4" unitRef="usdPerShare" decimals="INF">1.25</us-gaap:EarningsPerShareBasic>
  <us-gaap:EarningsPerShareDiluted contextRef="c-4" unitRef="usdPerShare" decimals="INF">1.20</us-gaap:EarningsPerShareDiluted>
  <acme:FootnoteText contextRef="c-4">` + LongFootnote + `</acme:FootnoteText>
  <bogus:Orphan contextRef="c-4">5</bogus:Orphan>

  <context id="c-5">
    <entity><identifier scheme="http://www.sec.gov/CIK">0000000001</identifier></entity>
    <period><startDate>2024-01-01</startDate><endDate>2024-03-31</endDate></period>
  </context>
</xbrl>`

// Prefix is the file prefix of the written filing.
const Prefix = "acme-20250331"

// WriteFiling lays the filing out as <root>/acme/Q1/acme-20250331_{htm,lab,pre}.xml
// and returns the instance path.
func WriteFiling(t testing.TB, root string) string {
	t.Helper()
	dir := filepath.Join(root, "acme", "Q1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		Prefix + "_htm.xml": Instance,
		Prefix + "_lab.xml": Labels,
		Prefix + "_pre.xml": Presentation,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return filepath.Join(dir, Prefix+"_htm.xml")
}
