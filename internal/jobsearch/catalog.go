package jobsearch

const catalogSite = "CarreiraIA"

var catalog = []Listing{
	{
		Title:        "Desenvolvedor Full Stack Pleno",
		Company:      "TechCorp Brasil",
		Description:  "Desenvolvimento de aplicações web com React e Node.js em squad de produto.",
		Location:     "São Paulo, SP",
		SourceURL:    "https://carreiraia.com.br/vagas/techcorp-fullstack-pleno",
		Requirements: "React, Node.js, TypeScript, PostgreSQL, 3+ anos de experiência",
		SalaryMin:    8000,
		SalaryMax:    12000,
	},
	{
		Title:        "Engenheiro de Software Backend Go",
		Company:      "PagFácil",
		Description:  "Construção de APIs de pagamentos de alta disponibilidade.",
		Location:     "Remoto",
		SourceURL:    "https://carreiraia.com.br/vagas/pagfacil-backend-go",
		Requirements: "Go, gRPC, Kubernetes, mensageria, testes automatizados",
		SalaryMin:    12000,
		SalaryMax:    18000,
	},
	{
		Title:        "Analista de Dados Júnior",
		Company:      "Varejo Inteligente",
		Description:  "Criação de dashboards e análises de vendas para o time comercial.",
		Location:     "Belo Horizonte, MG",
		SourceURL:    "https://carreiraia.com.br/vagas/varejo-analista-dados-jr",
		Requirements: "SQL, Power BI, Excel avançado, Python desejável",
		SalaryMin:    4000,
		SalaryMax:    6000,
	},
	{
		Title:        "Desenvolvedor Frontend Sênior",
		Company:      "EducaMais",
		Description:  "Evolução da plataforma de ensino online e do design system.",
		Location:     "Remoto",
		SourceURL:    "https://carreiraia.com.br/vagas/educamais-frontend-senior",
		Requirements: "React, TypeScript, acessibilidade, testes com Jest, 5+ anos",
		SalaryMin:    14000,
		SalaryMax:    20000,
	},
	{
		Title:        "Cientista de Dados Pleno",
		Company:      "Saúde Conectada",
		Description:  "Modelos preditivos para triagem de pacientes e redução de custos.",
		Location:     "Rio de Janeiro, RJ",
		SourceURL:    "https://carreiraia.com.br/vagas/saude-cientista-dados",
		Requirements: "Python, scikit-learn, estatística, SQL, MLOps",
		SalaryMin:    11000,
		SalaryMax:    15000,
	},
	{
		Title:        "Engenheiro DevOps",
		Company:      "Nuvem Sul",
		Description:  "Automação de infraestrutura e pipelines de CI/CD em AWS.",
		Location:     "Porto Alegre, RS (híbrido)",
		SourceURL:    "https://carreiraia.com.br/vagas/nuvemsul-devops",
		Requirements: "AWS, Terraform, Docker, Kubernetes, GitHub Actions",
		SalaryMin:    10000,
		SalaryMax:    16000,
	},
	{
		Title:        "Estagiário de Desenvolvimento",
		Company:      "StartHub",
		Description:  "Apoio ao time de produto em tarefas de front e back end.",
		Location:     "Curitiba, PR",
		SourceURL:    "https://carreiraia.com.br/vagas/starthub-estagio-dev",
		Requirements: "Lógica de programação, JavaScript, vontade de aprender",
		SalaryMin:    1800,
		SalaryMax:    2200,
	},
	{
		Title:        "Product Manager",
		Company:      "Logística Já",
		Description:  "Gestão do roadmap do aplicativo de entregas e descoberta com clientes.",
		Location:     "São Paulo, SP",
		SourceURL:    "https://carreiraia.com.br/vagas/logisticaja-pm",
		Requirements: "Discovery, métricas de produto, SQL básico, inglês avançado",
		SalaryMin:    13000,
		SalaryMax:    19000,
	},
}

// Fallback returns a copy of the static catalog used when the provider is
// disabled or returns nothing.
func Fallback() []Listing {
	out := make([]Listing, len(catalog))
	for i, l := range catalog {
		l.SourceSite = catalogSite
		out[i] = l
	}
	return out
}
