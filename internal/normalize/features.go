package normalize

// Feature is a selectable distribution feature.
type Feature struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// CompareFeatures are the features offered by the comparison view, in menu
// order.
var CompareFeatures = []Feature{
	{"color.avg_saturation", "Average Saturation"},
	{"color.avg_brightness", "Average Brightness"},
	{"color.warm_cool_score", "Warm/Cool Score"},
	{"text.text_area_ratio", "Text Area Ratio"},
	{"text.text_box_count", "Text Box Count"},
	{"face.face_count", "Face Count"},
	{"face.largest_face_area_ratio", "Largest Face Size"},
	{"face.emotion_proxies.smile_score", "Smile Score"},
	{"face.emotion_proxies.mouth_open_score", "Mouth Open Score"},
	{"face.emotion_proxies.brow_raise_score", "Brow Raise Score"},
	{"pose.hand_visible_count", "Visible Hands"},
	{"pose.body_coverage", "Body Coverage"},
	{"depth.depth_contrast", "Depth Contrast"},
	{"depth.foreground_ratio", "Foreground Ratio"},
}

// CompareFeatureLabel returns the menu label of name, or name itself.
func CompareFeatureLabel(name string) string {
	for _, f := range CompareFeatures {
		if f.Name == name {
			return f.Label
		}
	}
	return name
}
