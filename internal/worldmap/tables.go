package worldmap

// euMemberGeometries はEU加盟27カ国の地図ジオメトリ名。
// 「European Union」凡例はこの全件に展開される。
var euMemberGeometries = []string{
	"Austria",
	"Belgium",
	"Bulgaria",
	"Croatia",
	"Cyprus",
	"Czechia",
	"Denmark",
	"Estonia",
	"Finland",
	"France",
	"Germany",
	"Greece",
	"Hungary",
	"Ireland",
	"Italy",
	"Latvia",
	"Lithuania",
	"Luxembourg",
	"Malta",
	"Netherlands",
	"Poland",
	"Portugal",
	"Romania",
	"Slovakia",
	"Slovenia",
	"Spain",
	"Sweden",
}

// specialCase は超国家的・全世界的な凡例ラベルの展開規則。
// GeometriesがnilかつGlobalCoverがtrueの場合は「全ジオメトリを
// カバーする」センチネルとして扱う。
type specialCase struct {
	label       string
	geometries  []string
	globalCover bool
}

// specialCases は完全一致で評価される特殊ケーステーブル。
// 宣言順に評価される。
var specialCases = []specialCase{
	{label: "European Union", geometries: euMemberGeometries},
	{label: "EU", geometries: euMemberGeometries},
	{label: "International", globalCover: true},
	{label: "World", globalCover: true},
	{label: "Global", globalCover: true},
}

// nameEntry は自由記述の管轄ラベルと地図ライブラリが期待する
// 正規ジオメトリ名の対応を表す。
type nameEntry struct {
	label    string
	geometry string
}

// nameTable は過去の検索結果で出現した管轄ラベルの正規化テーブル。
// 部分一致フォールバック（双方向・大文字小文字無視）は宣言順に
// 最初にマッチしたエントリを返すため、順序に意味がある。
var nameTable = []nameEntry{
	{"United States of America", "United States of America"},
	{"United States", "United States of America"},
	{"USA", "United States of America"},
	{"United Kingdom", "United Kingdom"},
	{"UK", "United Kingdom"},
	{"Great Britain", "United Kingdom"},
	{"Czech Republic", "Czechia"},
	{"Czechia", "Czechia"},
	{"Democratic Republic of the Congo", "Dem. Rep. Congo"},
	{"Dem. Rep. Congo", "Dem. Rep. Congo"},
	{"DR Congo", "Dem. Rep. Congo"},
	{"Republic of the Congo", "Congo"},
	{"Central African Republic", "Central African Rep."},
	{"South Korea", "South Korea"},
	{"Republic of Korea", "South Korea"},
	{"North Korea", "North Korea"},
	{"Russian Federation", "Russia"},
	{"Russia", "Russia"},
	{"United Arab Emirates", "United Arab Emirates"},
	{"UAE", "United Arab Emirates"},
	{"Bosnia and Herzegovina", "Bosnia and Herz."},
	{"North Macedonia", "Macedonia"},
	{"Ivory Coast", "Côte d'Ivoire"},
	{"Cote d'Ivoire", "Côte d'Ivoire"},
	{"Myanmar", "Myanmar"},
	{"Burma", "Myanmar"},
	{"Vietnam", "Vietnam"},
	{"Viet Nam", "Vietnam"},
	{"Laos", "Laos"},
	{"Brunei", "Brunei"},
	{"East Timor", "Timor-Leste"},
	{"Timor-Leste", "Timor-Leste"},
	{"Cape Verde", "Cabo Verde"},
	{"Swaziland", "eSwatini"},
	{"Eswatini", "eSwatini"},
	{"Solomon Islands", "Solomon Is."},
	{"Equatorial Guinea", "Eq. Guinea"},
	{"South Sudan", "S. Sudan"},
	{"Western Sahara", "W. Sahara"},
	{"Dominican Republic", "Dominican Rep."},
	{"Falkland Islands", "Falkland Is."},
	{"French Southern Territories", "Fr. S. Antarctic Lands"},
	{"Netherlands Antilles", "Netherlands"},
	{"Hong Kong", "China"},
	{"Macau", "China"},
	{"Taiwan", "Taiwan"},
	{"Palestine", "Palestine"},
	{"Vatican City", "Vatican"},
	{"Holy See", "Vatican"},
}
