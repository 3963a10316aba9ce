package testutil

// FixtureTypes are the blocks of MBTISource, in source order.
var FixtureTypes = []string{"INTJ", "INTP", "ENFP", "ESFJ"}

// MBTISource is a trimmed-down constants module in the shape of the real
// content project. Its values contain braces inside strings, a template
// literal and comments.
const MBTISource = `// MBTI 类型描述
import { COLORS } from './colors'

export const TYPE_DESCRIPTIONS = {
  INTJ: {
    name: '建筑师',
    nickname: "Architect",
    traits: ['独立', '理性', '有远见'],
    quote: '计划 { 先于 } 行动',
    colors: { primary: COLORS.purple, accent: '#88619a' },
  },
  INTP: {
    name: '逻辑学家',
    traits: ['好奇', '分析'],
    // 注释里的 } 不影响解析
    summary: ` + "`喜欢 ${'{'}抽象${'}'} 的问题`" + `,
  },
  ENFP: {
    name: '竞选者',
    traits: ['热情', '创意'],
    careers: [{ title: '记者' }, { title: '顾问' }],
  },
  ESFJ: {
    name: '执政官',
    traits: [],
  },
}

export const TYPE_ORDER = Object.keys(TYPE_DESCRIPTIONS)
`

// FixtureConfig is an mbtitools.hcl that points every pass at the fixture tree.
const FixtureConfig = `
extract "types" {
  source     = "src/constants/mbti.js"
  object     = "TYPE_DESCRIPTIONS"
  output_dir = "src/constants/mbti/types"
  blocks     = ["INTJ", "INTP", "ENFP", "ESFJ"]
}

css_audit {
  stylesheet_root = "src/components"
  scripts         = ["src/**/*.js", "src/**/*.jsx"]
}

class_rename "result-page" {
  files = [
    "src/components/ResultPage/TypeDetailTabs.jsx",
    "src/components/ResultPage/TypeDetailTabs.css",
  ]
  renames = {
    "tab-buttons"      = "result-tab-buttons"
    "tab-button"       = "result-tab-button"
    "tab-content"      = "result-tab-content"
    "tab-content-list" = "result-tab-content-list"
  }
}

indent {
  dir   = "src/constants/mbti/types"
  files = ["INTJ", "INTP", "ENFP", "ESFJ"]
}

dev_server {
  port_min = 5173
  port_max = 5180
  command  = ["npm", "run", "dev"]
}
`

// FixtureTree returns the files of a small project using MBTISource and
// FixtureConfig.
func FixtureTree() map[string]string {
	return map[string]string{
		"mbtitools.hcl":                                FixtureConfig,
		"src/constants/mbti.js":                        MBTISource,
		"src/main.jsx":                                 "import './index.css'\nimport App from './App'\n",
		"src/App.jsx":                                  "import './components/Layout.css'\nimport ResultPage from './components/ResultPage/ResultPage'\n",
		"src/index.css":                                "body { margin: 0 }\n",
		"src/components/Layout.css":                    ".layout { display: grid }\n",
		"src/components/OldStyles.css":                 ".old { color: red }\n",
		"src/components/ResultPage/ResultPage.jsx":     "import styles from './ResultPage.css?inline'\nimport TypeDetailTabs from './TypeDetailTabs'\n",
		"src/components/ResultPage/ResultPage.css":     ".result { padding: 1rem }\n",
		"src/components/ResultPage/TypeDetailTabs.jsx": "import './TypeDetailTabs.css'\n\nexport default function TypeDetailTabs({ active }) {\n  return (\n    <div className=\"tab-buttons\">\n      <button className={`tab-button ${active ? 'active' : ''}`}>概览</button>\n      <ul className=\"tab-content-list\"><li className='tab-content'>内容</li></ul>\n    </div>\n  )\n}\n",
		"src/components/ResultPage/TypeDetailTabs.css": ".tab-buttons { display: flex }\n.tab-button.active { color: #333 }\n.tab-content-list > .tab-content { padding: 0 }\n",
		"src/components/ResultPage/Unused.css":         ".unused { display: none }\n",
	}
}
