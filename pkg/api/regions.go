package api

// RegionUnknown is reported for province codes missing from the table.
const RegionUnknown = "Unknown"

// provinceToRegion maps the two-letter province codes used by the registry
// feed to their administrative region.
var provinceToRegion = map[string]string{
	"AG": "Sicilia", "AL": "Piemonte", "AN": "Marche", "AO": "Valle d'Aosta",
	"AQ": "Abruzzo", "AR": "Toscana", "AP": "Marche", "AT": "Piemonte",
	"AV": "Campania", "BA": "Puglia", "BT": "Puglia", "BL": "Veneto",
	"BN": "Campania", "BG": "Lombardia", "BI": "Piemonte", "BO": "Emilia-Romagna",
	"BZ": "Trentino-Alto Adige", "BS": "Lombardia", "BR": "Puglia",
	"CA": "Sardegna", "CL": "Sicilia", "CB": "Molise", "CI": "Sardegna",
	"CE": "Campania", "CT": "Sicilia", "CZ": "Calabria", "CH": "Abruzzo",
	"CO": "Lombardia", "CS": "Calabria", "CR": "Lombardia", "KR": "Calabria",
	"CN": "Piemonte", "EN": "Sicilia", "FM": "Marche", "FE": "Emilia-Romagna",
	"FI": "Toscana", "FG": "Puglia", "FC": "Emilia-Romagna", "FR": "Lazio",
	"GE": "Liguria", "GO": "Friuli-Venezia Giulia", "GR": "Toscana",
	"IM": "Liguria", "IS": "Molise", "SP": "Liguria", "LT": "Lazio",
	"LE": "Puglia", "LC": "Lombardia", "LI": "Toscana", "LO": "Lombardia",
	"LU": "Lombardia", "MC": "Marche", "MN": "Lombardia", "MS": "Toscana",
	"MT": "Basilicata", "VS": "Sardegna", "ME": "Sicilia", "MI": "Lombardia",
	"MO": "Emilia-Romagna", "MB": "Lombardia", "NA": "Campania", "NO": "Piemonte",
	"NU": "Sardegna", "OG": "Sardegna", "OT": "Sardegna", "OR": "Sardegna",
	"PD": "Veneto", "PA": "Sicilia", "PR": "Emilia-Romagna", "PV": "Lombardia",
	"PG": "Umbria", "PU": "Marche", "PE": "Abruzzo", "PC": "Emilia-Romagna",
	"PI": "Toscana", "PT": "Toscana", "PN": "Friuli-Venezia Giulia",
	"PZ": "Basilicata", "PO": "Toscana", "RG": "Sicilia", "RA": "Emilia-Romagna",
	"RC": "Calabria", "RE": "Emilia-Romagna", "RI": "Lazio", "RN": "Emilia-Romagna",
	"RM": "Lazio", "RO": "Veneto", "SA": "Campania", "SS": "Sardegna",
	"SV": "Liguria", "SI": "Toscana", "SR": "Sicilia", "SO": "Lombardia",
	"TA": "Puglia", "TE": "Abruzzo", "TR": "Umbria", "TO": "Piemonte",
	"TP": "Sicilia", "TN": "Trentino-Alto Adige", "TV": "Veneto",
	"TS": "Friuli-Venezia Giulia", "UD": "Friuli-Venezia Giulia",
	"VA": "Lombardia", "VE": "Veneto", "VB": "Piemonte", "VC": "Piemonte",
	"VR": "Veneto", "VV": "Calabria", "VI": "Veneto", "VT": "Lazio",
}

// RegionForProvince resolves a province code to its region name. Codes not
// present in the table resolve to RegionUnknown rather than failing.
func RegionForProvince(code string) string {
	if region, ok := provinceToRegion[code]; ok {
		return region
	}
	return RegionUnknown
}
