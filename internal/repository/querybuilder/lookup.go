package querybuilder

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// Auxiliary lookups against the water, sewerage and property tables. Each
// returns a single text column.

// waterApplicationMarker identifies water connection application numbers.
const waterApplicationMarker = "WS_AP"

// connectionTable picks the water or sewerage connection table for an application number.
func connectionTable(applicationNumber string) string {
	if strings.Contains(applicationNumber, waterApplicationMarker) {
		return "eg_ws_connection"
	}
	return "eg_sw_connection"
}

// OldConnectionNumber returns the legacy connection number of a water connection.
func OldConnectionNumber(consumerCode string) Query {
	return Query{
		SQL:  "SELECT oldconnectionno FROM eg_ws_connection WHERE connectionno = @consumercode",
		Args: pgx.NamedArgs{"consumercode": consumerCode},
	}
}

// LandArea returns the plot size of the property behind a water connection.
func LandArea(consumerCode string) Query {
	return Query{
		SQL: "SELECT a2.landarea::text FROM eg_ws_connection a1" +
			" INNER JOIN eg_pt_property a2 ON a1.property_id = a2.propertyid" +
			" WHERE a1.connectionno = @consumercode",
		Args: pgx.NamedArgs{"consumercode": consumerCode},
	}
}

// UsageCategory returns the usage category of the property behind a water connection.
func UsageCategory(consumerCode string) Query {
	return Query{
		SQL: "SELECT a2.usagecategory FROM eg_ws_connection a1" +
			" INNER JOIN eg_pt_property a2 ON a1.property_id = a2.propertyid" +
			" WHERE a1.connectionno = @consumercode",
		Args: pgx.NamedArgs{"consumercode": consumerCode},
	}
}

// UsageCategoryByApplicationNumber returns the property usage category for a connection application.
func UsageCategoryByApplicationNumber(applicationNumber string) Query {
	return Query{
		SQL: "SELECT a2.usagecategory FROM " + connectionTable(applicationNumber) + " a1" +
			" INNER JOIN eg_pt_property a2 ON a1.property_id = a2.propertyid" +
			" INNER JOIN eg_pt_address a3 ON a2.id = a3.propertyid" +
			" WHERE a1.applicationno = @applicationno",
		Args: pgx.NamedArgs{"applicationno": applicationNumber},
	}
}

// AddressByApplicationNumber returns door number, building name and city, concatenated.
func AddressByApplicationNumber(applicationNumber string) Query {
	return Query{
		SQL: "SELECT CONCAT(a3.doorno, a3.buildingname, a3.city) AS address FROM " + connectionTable(applicationNumber) + " a1" +
			" INNER JOIN eg_pt_property a2 ON a1.property_id = a2.propertyid" +
			" INNER JOIN eg_pt_address a3 ON a2.id = a3.propertyid" +
			" WHERE a1.applicationno = @applicationno",
		Args: pgx.NamedArgs{"applicationno": applicationNumber},
	}
}

// ConsumerCodeByReceiptNumber returns the consumer code of the bill a receipt paid.
func ConsumerCodeByReceiptNumber(receiptNumber string) Query {
	return Query{
		SQL: "SELECT bill.consumercode FROM payment_detail pd" +
			" INNER JOIN bill bill ON bill.id = pd.billid" +
			" WHERE pd.receiptnumber = @receiptnumber",
		Args: pgx.NamedArgs{"receiptnumber": receiptNumber},
	}
}
