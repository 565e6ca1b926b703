package style

// named holds tokens whose value is a fixed constant. Length values are in
// spacing units (4px each) so they survive Adjust unchanged in meaning.
var named = map[string]float64{
	"rounded-none": 0,
	"rounded-sm":   0.5,
	"rounded":      1,
	"rounded-md":   1.5,
	"rounded-lg":   2,
	"rounded-xl":   3,
	"rounded-2xl":  4,
	"rounded-3xl":  6,
	"rounded-full": 9999,

	"tracking-tighter": -0.05,
	"tracking-tight":   -0.025,
	"tracking-normal":  0,
	"tracking-wide":    0.025,
	"tracking-wider":   0.05,
	"tracking-widest":  0.1,

	"opacity-0":   0,
	"opacity-100": 100,

	"blur-none": 0,
	"blur-sm":   1,
	"blur":      2,
	"blur-md":   3,
	"blur-lg":   4,
	"blur-xl":   6,
	"blur-2xl":  10,
	"blur-3xl":  16,

	"font-thin":       100,
	"font-extralight": 200,
	"font-light":      300,
	"font-normal":     400,
	"font-medium":     500,
	"font-semibold":   600,
	"font-bold":       700,
	"font-extrabold":  800,
	"font-black":      900,
}

// fontSizes are rem sizes in spacing units (1rem is 4).
var fontSizes = map[string]float64{
	"text-xs":   3,
	"text-sm":   3.5,
	"text-base": 4,
	"text-lg":   4.5,
	"text-xl":   5,
	"text-2xl":  6,
	"text-3xl":  7.5,
	"text-4xl":  9,
	"text-5xl":  12,
	"text-6xl":  15,
}

func init() {
	for k, v := range fontSizes {
		named[k] = v
	}
}

var shades = []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900"}

var families = map[string][10]string{
	"slate":   {"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a"},
	"gray":    {"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827"},
	"zinc":    {"#fafafa", "#f4f4f5", "#e4e4e7", "#d4d4d8", "#a1a1aa", "#71717a", "#52525b", "#3f3f46", "#27272a", "#18181b"},
	"red":     {"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d"},
	"orange":  {"#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12"},
	"amber":   {"#fffbeb", "#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706", "#b45309", "#92400e", "#78350f"},
	"yellow":  {"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12"},
	"green":   {"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d"},
	"emerald": {"#ecfdf5", "#d1fae5", "#a7f3d0", "#6ee7b7", "#34d399", "#10b981", "#059669", "#047857", "#065f46", "#064e3b"},
	"teal":    {"#f0fdfa", "#ccfbf1", "#99f6e4", "#5eead4", "#2dd4bf", "#14b8a6", "#0d9488", "#0f766e", "#115e59", "#134e4a"},
	"cyan":    {"#ecfeff", "#cffafe", "#a5f3fc", "#67e8f9", "#22d3ee", "#06b6d4", "#0891b2", "#0e7490", "#155e75", "#164e63"},
	"sky":     {"#f0f9ff", "#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8", "#0ea5e9", "#0284c7", "#0369a1", "#075985", "#0c4a6e"},
	"blue":    {"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a"},
	"indigo":  {"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81"},
	"violet":  {"#f5f3ff", "#ede9fe", "#ddd6fe", "#c4b5fd", "#a78bfa", "#8b5cf6", "#7c3aed", "#6d28d9", "#5b21b6", "#4c1d95"},
	"purple":  {"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87"},
	"fuchsia": {"#fdf4ff", "#fae8ff", "#f5d0fe", "#f0abfc", "#e879f9", "#d946ef", "#c026d3", "#a21caf", "#86198f", "#701a75"},
	"pink":    {"#fdf2f8", "#fce7f3", "#fbcfe8", "#f9a8d4", "#f472b6", "#ec4899", "#db2777", "#be185d", "#9d174d", "#831843"},
	"rose":    {"#fff1f2", "#ffe4e6", "#fecdd3", "#fda4af", "#fb7185", "#f43f5e", "#e11d48", "#be123c", "#9f1239", "#881337"},
}

// palette maps "blue-500" style names to hex strings.
var palette = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
}

func init() {
	for family, hexes := range families {
		for i, shade := range shades {
			palette[family+"-"+shade] = hexes[i]
		}
	}
}
