package main

import (
	"context"
	"encoding/json"

	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/database"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"github.com/justsurfingit/carreira-ia/internal/store"
	"gorm.io/datatypes"
)

type planSeed struct {
	Name, Description, Price string
	MaxApplications          int
	HasAI                    bool
	Features                 []string
}

var plans = []planSeed{
	{
		Name:            "Básico",
		Description:     "Ideal para quem está começando a busca por emprego",
		Price:           "25.00",
		MaxApplications: 15,
		Features: []string{
			"15 envios de currículo por mês",
			"Busca automática de vagas",
			"Suporte por email",
		},
	},
	{
		Name:            "Pleno",
		Description:     "Para profissionais que buscam mais oportunidades",
		Price:           "45.00",
		MaxApplications: 25,
		HasAI:           true,
		Features: []string{
			"25 envios de currículo por mês",
			"Análise de currículo com IA",
			"Busca automática de vagas",
			"Sugestões de melhorias",
			"Suporte prioritário",
		},
	},
	{
		Name:            "Avançado",
		Description:     "Solução completa para acelerar sua carreira",
		Price:           "59.00",
		MaxApplications: 30,
		HasAI:           true,
		Features: []string{
			"30 envios de currículo por mês",
			"Análise avançada com IA",
			"Busca automática em múltiplos sites",
			"Otimização profissional do currículo",
			"Integrações ilimitadas",
			"Suporte VIP 24/7",
		},
	},
}

var testimonials = []models.Testimonial{
	{AuthorName: "Maria Silva", AuthorRole: "Desenvolvedora Full Stack", Rating: 5, IsVisible: true,
		Content: "Consegui meu emprego dos sonhos em duas semanas. A análise do currículo com IA fez toda a diferença."},
	{AuthorName: "João Santos", AuthorRole: "Gerente de Projetos", Rating: 5, IsVisible: true,
		Content: "O envio automático me poupou horas e recebi várias respostas positivas."},
	{AuthorName: "Ana Costa", AuthorRole: "Designer UX/UI", Rating: 5, IsVisible: true,
		Content: "A melhor ferramenta de busca de emprego que já usei. Já indiquei para meus amigos!"},
}

var faqs = []models.Faq{
	{Order: 1, IsVisible: true, Question: "Como funciona a análise de currículo com IA?",
		Answer: "A IA lê seu currículo e sugere melhorias de formato, palavras-chave relevantes e destaque das suas principais competências."},
	{Order: 2, IsVisible: true, Question: "Posso cancelar minha assinatura a qualquer momento?",
		Answer: "Sim. O cancelamento não tem taxa e o acesso continua ativo até o fim do período pago."},
	{Order: 3, IsVisible: true, Question: "Em quais sites de emprego vocês buscam vagas?",
		Answer: "Buscamos vagas nos principais portais do mercado brasileiro e em agregadores de vagas."},
	{Order: 4, IsVisible: true, Question: "Como funciona o envio automático de currículos?",
		Answer: "Cada candidatura entra numa fila de envio respeitando o limite do seu plano, e você acompanha o status de cada uma no painel."},
	{Order: 5, IsVisible: true, Question: "Meus dados estão seguros?",
		Answer: "Sim. Senhas de integrações são criptografadas e seus documentos ficam em armazenamento seguro. Nunca compartilhamos seus dados sem autorização."},
}

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load config")
	}
	logger.Setup(cfg.Log.Level)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("database connection failed")
	}
	st := store.New(db)
	defer st.Close()

	ctx := context.Background()
	logger.LogInfo("Seeding database")

	for _, p := range plans {
		features, err := json.Marshal(p.Features)
		if err != nil {
			logger.Log.WithError(err).Fatal("encode features")
		}
		plan := &models.SubscriptionPlan{
			Name:            p.Name,
			Description:     p.Description,
			Price:           p.Price,
			Currency:        "BRL",
			MaxApplications: p.MaxApplications,
			HasAIAnalysis:   p.HasAI,
			Features:        datatypes.JSON(features),
			IsActive:        true,
		}
		if err := st.EnsurePlan(ctx, plan); err != nil {
			logger.Log.WithError(err).Fatal("seed plan " + p.Name)
		}
	}

	for i := range testimonials {
		if err := st.EnsureTestimonial(ctx, &testimonials[i]); err != nil {
			logger.Log.WithError(err).Fatal("seed testimonial")
		}
	}

	for i := range faqs {
		if err := st.EnsureFaq(ctx, &faqs[i]); err != nil {
			logger.Log.WithError(err).Fatal("seed faq")
		}
	}

	logger.LogSuccess("Database seeded")
}
