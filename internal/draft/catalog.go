package draft

// CommonLabOrders lists the analyses offered as quick picks in the lab order
// section.
var CommonLabOrders = []string{
	"NFS",
	"Ionogramme sanguin",
	"Glycémie à jeun",
	"HbA1c",
	"Créatininémie",
	"Bilan lipidique",
	"Bilan hépatique",
	"TSH",
	"CRP",
	"Ferritine",
}
