package geo

// Colombian city to department table. Each department lists its capital and,
// where the scene is active, a second city.
var departmentByCity = map[string]string{
	"Manizales":              "Caldas",
	"Chinchiná":              "Caldas",
	"Bogotá":                 "Cundinamarca",
	"Medellín":               "Antioquia",
	"Envigado":               "Antioquia",
	"Cali":                   "Valle del Cauca",
	"Palmira":                "Valle del Cauca",
	"Pereira":                "Risaralda",
	"Dosquebradas":           "Risaralda",
	"Armenia":                "Quindío",
	"Circasia":               "Quindío",
	"Leticia":                "Amazonas",
	"Arauca":                 "Arauca",
	"Barranquilla":           "Atlántico",
	"Soledad":                "Atlántico",
	"Cartagena":              "Bolívar",
	"Magangué":               "Bolívar",
	"Tunja":                  "Boyacá",
	"Sogamoso":               "Boyacá",
	"Bucaramanga":            "Santander",
	"Floridablanca":          "Santander",
	"Popayán":                "Cauca",
	"Santander de Quilichao": "Cauca",
	"Yopal":                  "Casanare",
	"Florencia":              "Caquetá",
	"Valledupar":             "Cesar",
	"Aguachica":              "Cesar",
	"Quibdó":                 "Chocó",
	"Istmina":                "Chocó",
	"Montería":               "Córdoba",
	"Lorica":                 "Córdoba",
	"Inírida":                "Guainía",
	"San José del Guaviare":  "Guaviare",
	"Neiva":                  "Huila",
	"Pitalito":               "Huila",
	"Riohacha":               "La Guajira",
	"Maicao":                 "La Guajira",
	"Santa Marta":            "Magdalena",
	"Ciénaga":                "Magdalena",
	"Villavicencio":          "Meta",
	"Acacías":                "Meta",
	"Pasto":                  "Nariño",
	"Ipiales":                "Nariño",
	"San Andrés":             "San Andrés y Providencia",
	"Mocoa":                  "Putumayo",
	"Cúcuta":                 "Norte de Santander",
	"Ocaña":                  "Norte de Santander",
	"Sincelejo":              "Sucre",
	"Corozal":                "Sucre",
	"Ibagué":                 "Tolima",
	"Espinal":                "Tolima",
	"Mitú":                   "Vaupés",
	"Puerto Carreño":         "Vichada",
}

var regionByDepartment = map[string]string{
	"Caldas":                   "Eje Cafetero",
	"Quindío":                  "Eje Cafetero",
	"Risaralda":                "Eje Cafetero",
	"Cundinamarca":             "Bogotá",
	"Antioquia":                "Medellín",
	"Valle del Cauca":          "Valle",
	"Atlántico":                "Costa",
	"Bolívar":                  "Costa",
	"Magdalena":                "Costa",
	"Córdoba":                  "Costa",
	"Sucre":                    "Costa",
	"La Guajira":               "Costa",
	"San Andrés y Providencia": "Costa",
	"Cesar":                    "Costa",
}

var zoneByDepartment = map[string]string{
	"Caldas":                   "Eje Cafetero",
	"Quindío":                  "Eje Cafetero",
	"Risaralda":                "Eje Cafetero",
	"Cundinamarca":             "Bogotá",
	"Antioquia":                "Medellín",
	"Valle del Cauca":          "Valle",
	"Atlántico":                "Costa",
	"Bolívar":                  "Costa",
	"Magdalena":                "Costa",
	"Córdoba":                  "Costa",
	"Sucre":                    "Costa",
	"La Guajira":               "Costa",
	"San Andrés y Providencia": "Costa",
	"Cesar":                    "Costa",
}
