// Package worldmap は地図凡例ラベルから地図ジオメトリ名への解決を提供する。
//
// ブレティンの国別グルーピングで使われる自由記述の管轄ラベル
// （例: "European Union", "Dem. Rep. Congo", "International"）を、
// 地図描画ライブラリが期待する正規ジオメトリ名へ変換する。
// 解決は同期的かつ副作用なしで行われ、確認ダイアログや遅延を伴わない。
package worldmap

import "strings"

// Resolution は凡例ラベル1件の解決結果を表す。
type Resolution struct {
	// Geometries は塗りつぶし対象の正規ジオメトリ名。
	// GlobalCoverがtrueの場合は空で、全ジオメトリが対象となる。
	Geometries []string `json:"geometries"`
	// GlobalCover は「全世界をカバーする」センチネルにマッチしたことを示す。
	GlobalCover bool `json:"global_cover"`
}

// Resolve は凡例ラベルをジオメトリ名の集合に解決する。
//
// 解決順序:
//  1. 特殊ケーステーブルとの完全一致（EU展開・全世界センチネル）
//  2. 正規化テーブルとの完全一致
//  3. テーブルのラベル・ジオメトリ名との双方向部分一致
//     （大文字小文字無視、宣言順で最初のマッチを採用）
//  4. フォールバック: 入力をそのまま単一要素のジオメトリリストとして返す
//
// GlobalCoverがtrueになるのは手順1で全世界センチネルにマッチした場合のみ。
// 同一入力に対する出力はテーブルが変わらない限りバイト単位で一致する
// （乱数・ロケール依存なし）。
func Resolve(legend string) Resolution {
	// 1. 特殊ケースの完全一致
	for _, sc := range specialCases {
		if legend == sc.label {
			if sc.globalCover {
				return Resolution{GlobalCover: true}
			}
			geoms := make([]string, len(sc.geometries))
			copy(geoms, sc.geometries)
			return Resolution{Geometries: geoms}
		}
	}

	// 2. 正規化テーブルの完全一致
	for _, e := range nameTable {
		if legend == e.label {
			return Resolution{Geometries: []string{e.geometry}}
		}
	}

	// 3. 双方向部分一致（宣言順）
	lower := strings.ToLower(legend)
	for _, e := range nameTable {
		labelLower := strings.ToLower(e.label)
		geomLower := strings.ToLower(e.geometry)
		if strings.Contains(labelLower, lower) || strings.Contains(lower, labelLower) ||
			strings.Contains(geomLower, lower) || strings.Contains(lower, geomLower) {
			return Resolution{Geometries: []string{e.geometry}}
		}
	}

	// 4. フォールバック: 入力名をそのまま使用
	return Resolution{Geometries: []string{legend}}
}

// ResolveAll は凡例ラベルのリストをラベルをキーとした解決結果マップに変換する。
// ブレティンのCountryOrderをそのまま渡して凡例全体を解決する用途で使う。
func ResolveAll(legends []string) map[string]Resolution {
	result := make(map[string]Resolution, len(legends))
	for _, legend := range legends {
		result[legend] = Resolve(legend)
	}
	return result
}
