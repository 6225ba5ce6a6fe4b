package venue

import "regexp"

// rule maps a venue citation pattern to its canonical base name. Rules are
// evaluated top to bottom and the first match wins, so the order of the
// table is load-bearing: patterns are not mutually exclusive.
type rule struct {
	re *regexp.Regexp
	// exclude vetoes the match when it also matches; used where a shorter
	// acronym is a substring of a longer one (ACL inside NAACL/EACL).
	exclude *regexp.Regexp
	base    string
	// workshopVariant marks rules whose base name takes a " Workshop"
	// suffix when the citation indicates a workshop track. Journal and
	// transactions entries never do.
	workshopVariant bool
}

func conf(pattern, base string) rule {
	return rule{re: regexp.MustCompile(pattern), base: base, workshopVariant: true}
}

func journal(pattern, base string) rule {
	return rule{re: regexp.MustCompile(pattern), base: base}
}

// rules is the ordered classification table, grouped by subject area.
var rules = []rule{
	// Computer vision
	conf(`(?i)conference on computer vision and pattern recognition|computer vision and pattern recognition conference|\bcvpr\b`, "CVPR"),
	conf(`(?i)ieee(?:/cvf)? international conference on computer vision|international conference on computer vision\b|\biccv\b`, "ICCV"),
	conf(`(?i)european conference on computer vision|computer vision\s*[-–]+\s*eccv|\beccv\b`, "ECCV"),
	conf(`(?i)winter conference on applications of computer vision|\bwacv\b`, "WACV"),
	conf(`(?i)british machine vision conference|\bbmvc\b`, "BMVC"),
	conf(`(?i)asian conference on computer vision|\baccv\b`, "ACCV"),

	// Machine learning
	conf(`(?i)neural information processing systems|\bneurips\b|\bnips\b`, "NeurIPS"),
	conf(`(?i)international conference on machine learning|\bicml\b`, "ICML"),
	conf(`(?i)international conference on learning representations|\biclr\b`, "ICLR"),
	conf(`(?i)international conference on artificial intelligence and statistics|\baistats\b`, "AISTATS"),
	conf(`(?i)conference on learning theory|\bcolt\b`, "COLT"),

	// Artificial intelligence
	conf(`(?i)association for the advancement of artificial intelligence|aaai conference|\baaai\b`, "AAAI"),
	conf(`(?i)international joint conference(?:s)? on artificial intelligence|\bijcai\b`, "IJCAI"),

	// Natural language processing. NAACL and EACL come before ACL, and the
	// ACL rule explicitly excludes them: every NAACL citation also looks
	// like an ACL one.
	conf(`(?i)north american chapter of the association for computational linguistics|\bnaacl\b`, "NAACL"),
	conf(`(?i)european chapter of the association for computational linguistics|\beacl\b`, "EACL"),
	conf(`(?i)empirical methods in natural language processing|\bemnlp\b`, "EMNLP"),
	conf(`(?i)international conference on computational linguistics|\bcoling\b`, "COLING"),
	// TACL before ACL for the same reason: its full name contains the ACL
	// society name. A journal, so no workshop variant.
	journal(`(?i)transactions of the association for computational linguistics|\btacl\b`, "TACL"),
	rule{
		re:              regexp.MustCompile(`(?i)association for computational linguistics|annual meeting of the acl|\bacl\b`),
		exclude:         regexp.MustCompile(`(?i)naacl|eacl`),
		base:            "ACL",
		workshopVariant: true,
	},
	conf(`(?i)computational natural language learning|\bconll\b`, "CoNLL"),

	// Data mining and the web
	conf(`(?i)knowledge discovery and data mining|\bsigkdd\b|\bkdd\b`, "KDD"),
	conf(`(?i)web search and data mining|\bwsdm\b`, "WSDM"),
	conf(`(?i)international conference on data mining|\bicdm\b`, "ICDM"),
	conf(`(?i)(?:international )?world wide web conference|the web conference|\bwww\b`, "WWW"),
	conf(`(?i)research and development in information retrieval|\bsigir\b`, "SIGIR"),
	conf(`(?i)information and knowledge management|\bcikm\b`, "CIKM"),
	conf(`(?i)conference on recommender systems|\brecsys\b`, "RecSys"),

	// Robotics
	conf(`(?i)international conference on robotics and automation|\bicra\b`, "ICRA"),
	conf(`(?i)international conference on intelligent robots and systems|\biros\b`, "IROS"),
	conf(`(?i)robotics[:,]?\s+science and systems|\brss\b`, "RSS"),
	conf(`(?i)conference on robot learning|\bcorl\b`, "CoRL"),

	// Signal processing and speech
	conf(`(?i)acoustics,?\s+speech,?\s+and signal processing|\bicassp\b`, "ICASSP"),
	conf(`(?i)\binterspeech\b`, "Interspeech"),

	// Medical imaging
	conf(`(?i)medical image computing and computer[- ]assisted intervention|\bmiccai\b`, "MICCAI"),
	conf(`(?i)information processing in medical imaging|\bipmi\b`, "IPMI"),
	conf(`(?i)international symposium on biomedical imaging|\bisbi\b`, "ISBI"),
	conf(`(?i)medical imaging with deep learning|\bmidl\b`, "MIDL"),

	// Graphics. Asia first: plain SIGGRAPH is a substring.
	conf(`(?i)siggraph\s+asia`, "SIGGRAPH Asia"),
	conf(`(?i)\bsiggraph\b`, "SIGGRAPH"),

	// IEEE transactions: no workshop variants, ever.
	journal(`(?i)transactions on pattern analysis and machine intelligence|\btpami\b`, "TPAMI"),
	journal(`(?i)transactions on image processing|\btip\b`, "TIP"),
	journal(`(?i)transactions on neural networks and learning systems|\btnnls\b`, "TNNLS"),
	journal(`(?i)transactions on medical imaging|\btmi\b`, "TMI"),
	journal(`(?i)transactions on signal processing`, "TSP"),
	journal(`(?i)transactions on robotics`, "T-RO"),
	journal(`(?i)ieee access`, "IEEE Access"),

	// Other journals
	journal(`(?i)international journal of computer vision|\bijcv\b`, "IJCV"),
	journal(`(?i)journal of machine learning research|\bjmlr\b`, "JMLR"),
	journal(`(?i)transactions on machine learning research|\btmlr\b`, "TMLR"),
	journal(`(?i)^medical image analysis\b`, "Medical Image Analysis"),
	journal(`(?i)^pattern recognition\b`, "Pattern Recognition"),
	journal(`(?i)^neurocomputing\b`, "Neurocomputing"),

	// High-impact journals. Nature sub-journals before bare Nature.
	journal(`(?i)^nature communications\b|\bnat\.?\s+commun\b`, "Nature Communications"),
	journal(`(?i)^nature machine intelligence\b`, "Nature Machine Intelligence"),
	journal(`(?i)^nature methods\b`, "Nature Methods"),
	journal(`(?i)^nature medicine\b`, "Nature Medicine"),
	journal(`(?i)^nature\b`, "Nature"),
	journal(`(?i)^science\b`, "Science"),
	journal(`(?i)national academy of sciences|\bpnas\b`, "PNAS"),
	journal(`(?i)^cell\b`, "Cell"),

	// Preprint servers
	journal(`(?i)arxiv`, "arXiv"),
	journal(`(?i)biorxiv`, "bioRxiv"),
	journal(`(?i)medrxiv`, "medRxiv"),
	journal(`(?i)social science research network|\bssrn\b`, "SSRN"),

	// Publishers, when the citation names nothing more specific
	journal(`(?i)\bspringer\b`, "Springer"),
	journal(`(?i)\belsevier\b`, "Elsevier"),
	journal(`(?i)\bwiley\b`, "Wiley"),

	// Miscellaneous conferences
	conf(`(?i)autonomous agents and multi-?agent systems|\baamas\b`, "AAMAS"),
	conf(`(?i)human factors in computing systems|\bchi\b`, "CHI"),
	conf(`(?i)uncertainty in artificial intelligence|\buai\b`, "UAI"),
	conf(`(?i)international conference on pattern recognition|\bicpr\b`, "ICPR"),
	conf(`(?i)international conference on image processing|\bicip\b`, "ICIP"),
	conf(`(?i)international conference on multimedia|\bacm mm\b`, "ACM MM"),
}

// workshopAcronyms drives the second, narrower pass for workshop citations
// whose venue did not match any area rule. Matching is plain substring
// search so that glued forms like "CVPRW" or "NeurIPSW", which the
// word-bounded primary rules miss, still attribute the workshop to its host
// conference.
var workshopAcronyms = []struct {
	needle string
	base   string
}{
	{"cvpr", "CVPR"},
	{"iccv", "ICCV"},
	{"eccv", "ECCV"},
	{"neurips", "NeurIPS"},
	{"nips", "NeurIPS"},
	{"icml", "ICML"},
	{"aaai", "AAAI"},
	{"ijcai", "IJCAI"},
}

// relaxedRule is the loose confirmation pass for the four highest-volume
// computer-vision venues: a topical keyword plus a structural keyword must
// co-occur. This catches formatting variants the primary rules miss without
// loosening the primary rules themselves.
type relaxedRule struct {
	base       string
	topical    []string
	structural []string
}

var relaxedRules = []relaxedRule{
	{base: "CVPR", topical: []string{"computer vision", "pattern"}, structural: []string{"ieee", "conference", "proceedings"}},
	{base: "ICCV", topical: []string{"computer vision", "international"}, structural: []string{"ieee", "conference", "proceedings"}},
	{base: "ECCV", topical: []string{"computer vision", "european"}, structural: []string{"conference", "proceedings"}},
	{base: "MICCAI", topical: []string{"medical image"}, structural: []string{"computing", "intervention", "conference"}},
}
