package querybuilder

import "github.com/jackc/pgx/v5"

// Bills loads bills with their details and account details.
//
// Outer joins keep bills that have no details; detail and account detail
// columns are NULL on those rows. Joins match on tenant as well as id.
func Bills(ids []string) Query {
	return Query{
		SQL: "SELECT " + project("b", "b_", billColumns) +
			", " + project("bd", "bd_", billDetailColumns) +
			", " + project("ad", "ad_", billAccountDetailColumns) +
			" FROM bill b" +
			" LEFT OUTER JOIN bill_detail bd ON b.id = bd.billid AND b.tenantid = bd.tenantid" +
			" LEFT OUTER JOIN bill_account_detail ad ON bd.id = ad.billdetailid AND bd.tenantid = ad.tenantid" +
			" WHERE b.id = ANY(@ids)" +
			` ORDER BY b.id, bd.id, ad."order", ad.id`,
		Args: pgx.NamedArgs{"ids": ids},
	}
}
