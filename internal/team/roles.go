package team

import "github.com/user/wealth-sprint/internal/types"

var genericQuestions = []types.InterviewQuestion{
	{
		Question:      "What motivates you to work?",
		Options:       []string{"Money only", "Learning and growth", "Just a job", "Free time"},
		CorrectAnswer: 1,
	},
	{
		Question:      "How do you handle pressure?",
		Options:       []string{"Panic", "Stay calm and prioritize", "Avoid it", "Blame others"},
		CorrectAnswer: 1,
	},
	{
		Question:      "What is your strength?",
		Options:       []string{"I don't have any", "Problem solving", "I'm perfect", "I work slowly"},
		CorrectAnswer: 1,
	},
}

var candidateNames = []string{
	"Rahul Gupta", "Anita Desai", "Vikram Singh", "Meera Kapoor", "Arun Nair",
	"Deepika Sharma", "Rohan Joshi", "Kavya Reddy", "Nitin Agarwal", "Pooja Malhotra",
	"Sanjay Yadav", "Ritu Choudhary", "Karan Malhotra", "Nisha Bansal", "Ajay Verma",
}

// DefaultRoleTemplates is the hiring catalogue used when no data file is present
func DefaultRoleTemplates() []types.RoleTemplate {
	return []types.RoleTemplate{
		{
			Role:         "Accountant",
			BaseSalary:   35000,
			Productivity: 15,
			Skills:       []string{"Excel", "Accounting", "Bookkeeping", "GST"},
			Strengths:    []string{"Attention to detail", "Analytical thinking", "Process oriented"},
			Weaknesses:   []string{"New to industry", "Needs guidance", "Limited experience"},
			Questions: []types.InterviewQuestion{
				{
					Question:      "What is the primary purpose of a trial balance?",
					Options:       []string{"To calculate profit", "To ensure debits equal credits", "To prepare tax returns", "To track expenses"},
					CorrectAnswer: 1,
				},
				{
					Question:      "Which software is commonly used for accounting?",
					Options:       []string{"Photoshop", "Tally", "AutoCAD", "Figma"},
					CorrectAnswer: 1,
				},
				{
					Question:      "What does GST stand for?",
					Options:       []string{"General Sales Tax", "Goods and Services Tax", "Government Standard Tax", "Global Service Tax"},
					CorrectAnswer: 1,
				},
			},
		},
		{
			Role:         "Sales Associate",
			BaseSalary:   25000,
			Productivity: 20,
			Skills:       []string{"Communication", "CRM", "Lead Generation", "Customer Service"},
			Strengths:    []string{"Enthusiasm", "Quick learner", "People skills"},
			Weaknesses:   []string{"Inexperienced", "Needs training", "Impatient"},
			Questions: []types.InterviewQuestion{
				{
					Question:      "What is the first step in the sales process?",
					Options:       []string{"Closing the deal", "Prospecting", "Follow-up", "Presentation"},
					CorrectAnswer: 1,
				},
				{
					Question:      "What does CRM stand for?",
					Options:       []string{"Customer Relationship Management", "Customer Revenue Management", "Client Record Management", "Customer Retention Model"},
					CorrectAnswer: 0,
				},
				{
					Question:      "How do you handle rejection in sales?",
					Options:       []string{"Give up immediately", "Learn from it and move on", "Argue with the customer", "Wait for them to call back"},
					CorrectAnswer: 1,
				},
			},
		},
		{
			Role:         "HR Associate",
			BaseSalary:   40000,
			Productivity: 10,
			Skills:       []string{"Recruitment", "Employee Relations", "HR Policies", "Payroll"},
			Strengths:    []string{"Organizational skills", "Empathy", "Multi-tasking"},
			Weaknesses:   []string{"Limited experience", "Needs supervision", "Overwhelmed by workload"},
		},
		{
			Role:         "HR Manager",
			BaseSalary:   80000,
			Productivity: 25,
			Skills:       []string{"Talent Management", "Leadership", "Strategic Planning", "Culture Building"},
			Strengths:    []string{"Strategic thinking", "Leadership", "Conflict resolution"},
			Weaknesses:   []string{"Resistant to change", "Perfectionist", "Delegation issues"},
		},
		{
			Role:         "Marketing Analyst",
			BaseSalary:   60000,
			Productivity: 35,
			Skills:       []string{"Analytics", "Digital Marketing", "SEO", "Campaign Management"},
			Strengths:    []string{"Data-driven", "Creative thinking", "Result-oriented"},
			Weaknesses:   []string{"Overthinking", "Perfectionist", "Impatient with results"},
			Questions: []types.InterviewQuestion{
				{
					Question:      "What is CTR in digital marketing?",
					Options:       []string{"Cost to Revenue", "Click Through Rate", "Customer Tracking Rate", "Conversion Target Rate"},
					CorrectAnswer: 1,
				},
				{
					Question:      "Which metric measures customer acquisition cost?",
					Options:       []string{"ROI", "CAC", "LTV", "ARPU"},
					CorrectAnswer: 1,
				},
				{
					Question:      "What is A/B testing used for?",
					Options:       []string{"Bug testing", "Comparing two versions", "Security testing", "Performance testing"},
					CorrectAnswer: 1,
				},
			},
		},
		{
			Role:         "Product Head",
			BaseSalary:   140000,
			Productivity: 80,
			Skills:       []string{"Product Strategy", "Market Research", "User Experience", "Leadership"},
			Strengths:    []string{"Vision", "Decision making", "User focus"},
			Weaknesses:   []string{"Micromanagement", "Perfectionist", "Impatient"},
		},
		{
			Role:         "Engineering Lead",
			BaseSalary:   120000,
			Productivity: 90,
			Skills:       []string{"React", "Node.js", "System Architecture", "Team Leadership"},
			Strengths:    []string{"Technical expertise", "Mentoring", "Problem solving"},
			Weaknesses:   []string{"Perfectionist", "Workaholic", "Impatient with junior devs"},
			Questions: []types.InterviewQuestion{
				{
					Question:      "What is the main benefit of using React hooks?",
					Options:       []string{"Better performance", "Functional components state management", "Easier debugging", "Smaller bundle size"},
					CorrectAnswer: 1,
				},
				{
					Question:      "What does API stand for?",
					Options:       []string{"Application Programming Interface", "Automated Program Integration", "Advanced Programming Interface", "Application Process Integration"},
					CorrectAnswer: 0,
				},
				{
					Question:      "What is the purpose of version control?",
					Options:       []string{"Bug tracking", "Code collaboration and history", "Performance monitoring", "Security testing"},
					CorrectAnswer: 1,
				},
			},
		},
		{
			Role:         "Developer",
			BaseSalary:   100000,
			Productivity: 70,
			Skills:       []string{"JavaScript", "Python", "Database Design", "API Development"},
			Strengths:    []string{"Code quality", "Innovation", "Collaboration"},
			Weaknesses:   []string{"Perfectionist", "Prefers working alone", "Resistant to feedback"},
		},
	}
}
