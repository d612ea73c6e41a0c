package urlutil

// excludedExtensions is a quick lookup of path/query suffixes typical of
// non-text resources (images, video, audio, archives, office documents).
var excludedExtensions = map[string]struct{}{}

func init() {
	for _, s := range []string{
		"3dv", "3g2", "3gp", "pi1", "pi2", "pi3", "ai", "amf", "amv", "art", "ase", "asf", "avi", "awg", "blp",
		"bmp", "bw", "cd5", "cdr", "cgm", "cit", "cmx", "cpt", "cr2", "cur", "cut", "dds", "dib", "djvu", "doc",
		"docx", "drc", "dxf", "e2d", "ecw", "egt", "emf", "eps", "exif", "f4a", "f4b", "f4p", "f4v", "flv",
		"fs", "gbr", "gif", "gifv", "gpl", "grf", "hdp", "icns", "ico", "iff", "int", "inta",
		"jfif", "jng", "jp2", "jpeg", "jpg", "jps", "jxr", "lbm", "liff", "m2v", "m4p", "m4v", "max", "miff",
		"mkv", "mng", "mov", "mp2", "mp4", "mpe", "mpeg", "mpg", "mpv", "msp", "mxf", "nitf", "nrrd",
		"nsv", "odg", "ogg", "ogv", "ota", "pam", "pbm", "pc1", "pc2", "pc3", "pcf", "pct", "pcx", "pdd", "pdf",
		"pdn", "pgf", "pgm", "pict", "png", "pnm", "pns", "ppm", "ppt", "pptx", "psb", "psd", "psp", "px", "pxm", "pxr",
		"qfx", "qt", "ras", "raw", "rgb", "rgba", "rle", "rm", "rmvb", "roq", "sct", "sgi", "sid", "stl",
		"sun", "svg", "svi", "sxd", "tga", "tif", "tiff", "v2d", "vnd", "vob", "vrml", "vtf", "wdp", "webm", "webp",
		"wmf", "wmv", "x3d", "xar", "xbm", "xcf", "xls", "xlsx", "xpm", "yuv",
	} {
		excludedExtensions[s] = struct{}{}
	}
}

// tldAllowlist keeps the few country-code TLDs likely to host Swiss-German
// content. Everything else from the country-code list below is rejected.
var tldAllowlist = map[string]struct{}{
	"ch": {}, "de": {}, "it": {}, "fr": {}, "eu": {}, "uk": {}, "us": {},
	// co stays because twitter's t.co shortener is a frequent shim target
	"co": {},
}

// excludedTLDs is the country-code TLD denylist, minus the allowlist above.
// Generic TLDs (com, org, net, ...) are implicitly kept by not being listed.
var excludedTLDs = map[string]struct{}{}

func init() {
	for _, s := range []string{
		"af", "ax", "al", "dz", "as", "ad", "ao", "ai", "aq", "ag", "ar", "am", "aw", "ac", "au", "at",
		"az", "bs", "bh", "bd", "bb", "eus", "by", "be", "bz", "bj", "bm", "bt", "bo", "bq", "an", "nl",
		"ba", "bw", "bv", "br", "io", "vg", "bn", "bg", "bf", "mm", "bi", "kh", "cm", "ca", "cv", "cat",
		"ky", "cf", "td", "cl", "cn", "cx", "cc", "co", "km", "cd", "cg", "ck", "cr", "ci", "hr", "cu",
		"cw", "cy", "cz", "dk", "dj", "dm", "do", "tl", "tp", "ec", "eg", "sv", "gq", "er", "ee", "et",
		"eu", "fk", "fo", "fm", "fj", "fi", "fr", "gf", "pf", "tf", "ga", "gal", "gm", "ps", "ge", "de",
		"gh", "gi", "gr", "gl", "gd", "gp", "gu", "gt", "gg", "gn", "gw", "gy", "ht", "hm", "hn", "hk",
		"hu", "is", "in", "id", "ir", "iq", "ie", "im", "il", "it", "jm", "jp", "je", "jo", "kz", "ke",
		"ki", "kw", "kg", "la", "lv", "lb", "ls", "lr", "ly", "li", "lt", "lu", "mo", "mk", "mg", "mw",
		"my", "mv", "ml", "mt", "mh", "mq", "mr", "mu", "yt", "mx", "md", "mc", "mn", "me", "ms", "ma",
		"mz", "na", "nr", "np", "nc", "nz", "ni", "ne", "ng", "nu", "nf", "tr", "kp",
		"mp", "no", "om", "pk", "pw", "pa", "pg", "py", "pe", "ph", "pn", "pl", "pt", "pr", "qa",
		"ro", "ru", "rw", "re", "bl", "sh", "kn", "lc", "mf", "pm",
		"vc", "ws", "sm", "st", "sa", "sn", "rs", "sc", "sl", "sg", "sx", "sk",
		"si", "sb", "so", "za", "gs", "kr", "ss", "es", "lk", "sd", "sr", "sj", "sz", "se", "ch",
		"sy", "tw", "tj", "tz", "th", "tg", "tk", "to", "tt", "tn", "tm", "tc", "tv", "ug", "ua",
		"ae", "uk", "us", "vi", "uy", "uz", "vu", "va", "ve", "vn", "wf", "eh", "ye", "zm", "zw",
	} {
		if _, ok := tldAllowlist[s]; !ok {
			excludedTLDs[s] = struct{}{}
		}
	}
}
