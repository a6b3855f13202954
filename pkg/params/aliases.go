package params

// deprecatedAliases maps a parameter file's legacy key spelling to its
// canonical one (spec.md §6: "deprecated aliases ... are silently
// rewritten"). Historically most of these name "track"/"ground speed"
// rather than "direction"/"horizontal speed"; spec.md §9 Design Note
// requires they remain file-format-only, never part of the core API.
var deprecatedAliases = map[string]string{
	"trk_step":          "step_hdir",
	"gs_step":           "step_hs",
	"vs_step":           "step_vs",
	"alt_step":          "step_alt",
	"trk_tolerance":     "step_hdir",
	"min_gs":            "min_hs",
	"max_gs":            "max_hs",
	"min_track":         "left_hdir",
	"max_track":         "right_hdir",
	"gs_accel":          "horizontal_accel",
	"vs_accel":          "vertical_accel",
	"min_horizontal_nmac": "horizontal_nmac",
	"min_vertical_nmac":   "vertical_nmac",
	"below_relative_gs":  "below_relative_hs",
	"above_relative_gs":  "above_relative_hs",
}

// canonicalKey resolves a parameter-file key to the name Parameters'
// field-mapping table understands, rewriting deprecated aliases.
func canonicalKey(key string) string {
	if canon, ok := deprecatedAliases[key]; ok {
		return canon
	}
	return key
}
