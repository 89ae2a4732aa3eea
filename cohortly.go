// Package cohortly simulates e-commerce order data and computes
// cohort-based retention metrics for a reporting dashboard.
//
// Usage:
//
//	import (
//	    "github.com/cohortly-org/cohortly/cohort"
//	    "github.com/cohortly-org/cohortly/report"
//	)
//
//	matrix := cohort.BuildMatrix(cohort.NewSliceView(orders))
//	churn := report.BuildChurnReport(matrix, time.Now())
//
// The pipeline is a single batch pass: generate (or load) orders, group
// customers by first-purchase month, compute month-over-month retention,
// and export CSV and styled spreadsheet files for whatever BI tool reads
// them. Nothing here talks to a network or a database.
package cohortly
