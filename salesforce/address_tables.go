// ABOUTME: Alias tables for country and US state normalization
// ABOUTME: Keys are upper-cased names, abbreviations, and ISO codes mapping to two-letter codes
package salesforce

var countryAliases = map[string]string{
	// United States
	"US": "US", "USA": "US", "U.S.": "US", "U.S.A.": "US", "UNITED STATES": "US",
	"UNITED STATES OF AMERICA": "US", "AMERICA": "US",
	// Canada
	"CA": "CA", "CAN": "CA", "CANADA": "CA",
	// Mexico
	"MX": "MX", "MEX": "MX", "MEXICO": "MX", "MÉXICO": "MX",
	// United Kingdom
	"GB": "GB", "GBR": "GB", "UK": "GB", "U.K.": "GB", "UNITED KINGDOM": "GB",
	"GREAT BRITAIN": "GB", "ENGLAND": "GB", "SCOTLAND": "GB", "WALES": "GB",
	// Ireland
	"IE": "IE", "IRL": "IE", "IRELAND": "IE",
	// France
	"FR": "FR", "FRA": "FR", "FRANCE": "FR",
	// Germany
	"DE": "DE", "DEU": "DE", "GERMANY": "DE", "DEUTSCHLAND": "DE",
	// Spain
	"ES": "ES", "ESP": "ES", "SPAIN": "ES", "ESPAÑA": "ES",
	// Italy
	"IT": "IT", "ITA": "IT", "ITALY": "IT", "ITALIA": "IT",
	// Portugal
	"PT": "PT", "PRT": "PT", "PORTUGAL": "PT",
	// Netherlands
	"NL": "NL", "NLD": "NL", "NETHERLANDS": "NL", "THE NETHERLANDS": "NL", "HOLLAND": "NL",
	// Belgium
	"BE": "BE", "BEL": "BE", "BELGIUM": "BE",
	// Switzerland
	"CH": "CH", "CHE": "CH", "SWITZERLAND": "CH",
	// Austria
	"AT": "AT", "AUT": "AT", "AUSTRIA": "AT",
	// Sweden
	"SE": "SE", "SWE": "SE", "SWEDEN": "SE",
	// Norway
	"NO": "NO", "NOR": "NO", "NORWAY": "NO",
	// Denmark
	"DK": "DK", "DNK": "DK", "DENMARK": "DK",
	// Finland
	"FI": "FI", "FIN": "FI", "FINLAND": "FI",
	// Poland
	"PL": "PL", "POL": "PL", "POLAND": "PL",
	// Australia
	"AU": "AU", "AUS": "AU", "AUSTRALIA": "AU",
	// New Zealand
	"NZ": "NZ", "NZL": "NZ", "NEW ZEALAND": "NZ",
	// Japan
	"JP": "JP", "JPN": "JP", "JAPAN": "JP",
	// China
	"CN": "CN", "CHN": "CN", "CHINA": "CN", "PRC": "CN",
	// India
	"IN": "IN", "IND": "IN", "INDIA": "IN",
	// South Korea
	"KR": "KR", "KOR": "KR", "SOUTH KOREA": "KR", "KOREA": "KR", "REPUBLIC OF KOREA": "KR",
	// Singapore
	"SG": "SG", "SGP": "SG", "SINGAPORE": "SG",
	// Hong Kong
	"HK": "HK", "HKG": "HK", "HONG KONG": "HK",
	// Brazil
	"BR": "BR", "BRA": "BR", "BRAZIL": "BR", "BRASIL": "BR",
	// Argentina
	"AR": "AR", "ARG": "AR", "ARGENTINA": "AR",
	// South Africa
	"ZA": "ZA", "ZAF": "ZA", "SOUTH AFRICA": "ZA",
	// Israel
	"IL": "IL", "ISR": "IL", "ISRAEL": "IL",
	// United Arab Emirates
	"AE": "AE", "ARE": "AE", "UAE": "AE", "UNITED ARAB EMIRATES": "AE",
}

var usStateAliases = map[string]string{
	"AL": "AL", "ALABAMA": "AL",
	"AK": "AK", "ALASKA": "AK",
	"AZ": "AZ", "ARIZONA": "AZ",
	"AR": "AR", "ARKANSAS": "AR",
	"CA": "CA", "CALIFORNIA": "CA",
	"CO": "CO", "COLORADO": "CO",
	"CT": "CT", "CONNECTICUT": "CT",
	"DE": "DE", "DELAWARE": "DE",
	"FL": "FL", "FLORIDA": "FL",
	"GA": "GA", "GEORGIA": "GA",
	"HI": "HI", "HAWAII": "HI",
	"ID": "ID", "IDAHO": "ID",
	"IL": "IL", "ILLINOIS": "IL",
	"IN": "IN", "INDIANA": "IN",
	"IA": "IA", "IOWA": "IA",
	"KS": "KS", "KANSAS": "KS",
	"KY": "KY", "KENTUCKY": "KY",
	"LA": "LA", "LOUISIANA": "LA",
	"ME": "ME", "MAINE": "ME",
	"MD": "MD", "MARYLAND": "MD",
	"MA": "MA", "MASSACHUSETTS": "MA",
	"MI": "MI", "MICHIGAN": "MI",
	"MN": "MN", "MINNESOTA": "MN",
	"MS": "MS", "MISSISSIPPI": "MS",
	"MO": "MO", "MISSOURI": "MO",
	"MT": "MT", "MONTANA": "MT",
	"NE": "NE", "NEBRASKA": "NE",
	"NV": "NV", "NEVADA": "NV",
	"NH": "NH", "NEW HAMPSHIRE": "NH",
	"NJ": "NJ", "NEW JERSEY": "NJ",
	"NM": "NM", "NEW MEXICO": "NM",
	"NY": "NY", "NEW YORK": "NY",
	"NC": "NC", "NORTH CAROLINA": "NC",
	"ND": "ND", "NORTH DAKOTA": "ND",
	"OH": "OH", "OHIO": "OH",
	"OK": "OK", "OKLAHOMA": "OK",
	"OR": "OR", "OREGON": "OR",
	"PA": "PA", "PENNSYLVANIA": "PA",
	"RI": "RI", "RHODE ISLAND": "RI",
	"SC": "SC", "SOUTH CAROLINA": "SC",
	"SD": "SD", "SOUTH DAKOTA": "SD",
	"TN": "TN", "TENNESSEE": "TN",
	"TX": "TX", "TEXAS": "TX",
	"UT": "UT", "UTAH": "UT",
	"VT": "VT", "VERMONT": "VT",
	"VA": "VA", "VIRGINIA": "VA",
	"WA": "WA", "WASHINGTON": "WA",
	"WV": "WV", "WEST VIRGINIA": "WV",
	"WI": "WI", "WISCONSIN": "WI",
	"WY": "WY", "WYOMING": "WY",
	// District of Columbia
	"DC": "DC", "D.C.": "DC", "DISTRICT OF COLUMBIA": "DC", "WASHINGTON DC": "DC", "WASHINGTON D.C.": "DC",
	// Territories
	"PR": "PR", "PUERTO RICO": "PR",
	"GU": "GU", "GUAM": "GU",
	"VI": "VI", "U.S. VIRGIN ISLANDS": "VI", "US VIRGIN ISLANDS": "VI", "VIRGIN ISLANDS": "VI",
	"AS": "AS", "AMERICAN SAMOA": "AS",
	"MP": "MP", "NORTHERN MARIANA ISLANDS": "MP",
}
