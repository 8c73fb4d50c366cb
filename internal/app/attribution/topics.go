package attribution

// topic ties a keyword set to a candidate pool. Keywords are matched as
// lower-case substrings.
type topic struct {
	Name     string
	Keywords []string
	Pool     []string
}

// sourceTopics is checked in order; the first match wins.
var sourceTopics = []topic{
	{
		Name:     "mathematics",
		Keywords: []string{"math", "calculus", "algebra", "statistics", "geometry", "trigonometry"},
		Pool: []string{
			"Stewart, J. (2020). Calculus: Early Transcendentals, 9th Edition",
			"Spivak, M. (2008). Calculus, 4th Edition",
			"Khan Academy: Mathematics",
			"MIT OpenCourseWare: Single Variable Calculus",
			"Wolfram MathWorld",
			"American Mathematical Society Publications",
		},
	},
	{
		Name:     "literature",
		Keywords: []string{"literature", "shakespeare", "poetry", "novel", "drama", "english"},
		Pool: []string{
			"Norton Anthology of English Literature",
			"The Cambridge History of English Literature",
			"MLA International Bibliography",
			"Oxford English Dictionary",
			"Project Gutenberg Digital Library",
			"JSTOR Literature Collection",
		},
	},
	{
		Name:     "science",
		Keywords: []string{"biology", "chemistry", "physics", "science", "molecular", "atomic", "cell"},
		Pool: []string{
			"Campbell, N. A. (2020). Campbell Biology, 12th Edition",
			"Zumdahl, S. S. (2019). Chemistry, 10th Edition",
			"Halliday, D. (2018). Fundamentals of Physics, 11th Edition",
			"Nature Journal Publications",
			"Science Magazine",
			"PubMed Central Database",
		},
	},
	{
		Name:     "history",
		Keywords: []string{"history", "war", "revolution", "political", "social", "civilization"},
		Pool: []string{
			"Foner, E. (2019). Give Me Liberty! An American History",
			"The Cambridge Modern History",
			"Oxford History of the World",
			"Smithsonian Institution Archives",
			"Library of Congress Digital Collections",
			"Historical Abstracts Database",
		},
	},
	{
		Name:     "computer_science",
		Keywords: []string{"programming", "algorithm", "computer", "software", "coding", "technology"},
		Pool: []string{
			"Cormen, T. H. (2009). Introduction to Algorithms, 3rd Edition",
			"Sipser, M. (2012). Introduction to the Theory of Computation",
			"ACM Digital Library",
			"IEEE Computer Society Publications",
			"MIT OpenCourseWare: Computer Science",
			"Stack Overflow Developer Survey",
		},
	},
	{
		Name:     "economics",
		Keywords: []string{"economics", "business", "finance", "market", "trade", "economy"},
		Pool: []string{
			"Mankiw, N. G. (2020). Principles of Economics, 8th Edition",
			"Krugman, P. (2018). Economics, 5th Edition",
			"Federal Reserve Economic Data (FRED)",
			"World Bank Open Data",
			"International Monetary Fund Publications",
			"Journal of Economic Literature",
		},
	},
	{
		Name:     "psychology",
		Keywords: []string{"psychology", "cognitive", "behavior", "mental", "brain", "mind"},
		Pool: []string{
			"Myers, D. G. (2019). Psychology, 12th Edition",
			"Cognitive Science Society Publications",
			"American Psychological Association (APA)",
			"Journal of Experimental Psychology",
			"Psychological Science Journal",
			"PsycINFO Database",
		},
	},
	{
		Name:     "art",
		Keywords: []string{"art", "painting", "sculpture", "renaissance", "museum", "artist"},
		Pool: []string{
			"Gardner, H. (2019). Gardner's Art through the Ages",
			"Metropolitan Museum of Art Collection",
			"Oxford Art Online",
			"Art Index Retrospective",
			"Museum of Modern Art (MoMA) Publications",
			"Getty Research Institute",
		},
	},
	{
		Name:     "philosophy",
		Keywords: []string{"philosophy", "ethics", "logic", "metaphysics", "epistemology"},
		Pool: []string{
			"Stanford Encyclopedia of Philosophy",
			"Blackwell Companion to Philosophy",
			"Oxford Handbook of Philosophy",
			"Philosophical Review",
			"Journal of Philosophy",
			"Internet Encyclopedia of Philosophy",
		},
	},
}

var genericSources = []string{
	"Encyclopedia Britannica Academic",
	"Oxford Academic Journals",
	"Cambridge Core",
	"JSTOR Academic Database",
	"Google Scholar",
	"ResearchGate Publications",
}

// followUpTopics is checked in order; the first match wins.
var followUpTopics = []topic{
	{
		Name:     "mathematics",
		Keywords: []string{"math", "calculus", "algebra", "equation"},
		Pool: []string{
			"Can you show me a step-by-step worked example?",
			"What are the real-world applications of this concept?",
			"How does this relate to other mathematical topics?",
			"What are common mistakes students make with this?",
			"Can you provide practice problems to test my understanding?",
		},
	},
	{
		Name:     "literature",
		Keywords: []string{"literature", "shakespeare", "poetry", "novel"},
		Pool: []string{
			"What are the key symbols and their meanings?",
			"How does this work reflect its historical context?",
			"What other works explore similar themes?",
			"How has critical interpretation of this work evolved?",
			"What writing techniques make this work effective?",
		},
	},
	{
		Name:     "science",
		Keywords: []string{"biology", "chemistry", "physics", "science"},
		Pool: []string{
			"Can you explain the underlying mechanism in more detail?",
			"What experiments demonstrate this principle?",
			"How is this concept applied in current research?",
			"What are the practical implications?",
			"How does this connect to other scientific concepts?",
		},
	},
	{
		Name:     "history",
		Keywords: []string{"history", "war", "revolution", "historical"},
		Pool: []string{
			"What were the long-term consequences of this event?",
			"How do different historians interpret this?",
			"What primary sources document this period?",
			"How did this influence later developments?",
			"What were the social and economic factors involved?",
		},
	},
	{
		Name:     "computer_science",
		Keywords: []string{"programming", "algorithm", "computer", "code"},
		Pool: []string{
			"Can you show me a code example?",
			"What are the time and space complexities?",
			"How is this implemented in different programming languages?",
			"What are the best practices for this?",
			"What are common debugging strategies?",
		},
	},
}

var genericFollowUps = []string{
	"Does that make sense? Would you like me to explain it differently?",
	"Can you think of any examples from your own experience?",
	"What questions do you have about this topic?",
	"Would you like me to create some practice questions?",
	"How confident do you feel about this concept now?",
	"What would you like to explore next?",
}
