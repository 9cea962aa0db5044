package tenancy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const fallbackDisplayName = "User"

// ResolveSessionContext は利用者とアクティブな会社を解決します。
//
// 会社は次の順で決まります。
//  1. 保存された会社の選択 (所属の検証はしません)
//  2. active または pending_invitation の所属から 1 件。active を招待中より優先し、次に JoinedAt の降順、同時刻は CompanyID の昇順
//  3. どちらもなければ CompanyID は nil
//
// Store の読み取りは並行に行い、見つからない以外の失敗は ErrStoreUnavailable として返します。
func ResolveSessionContext(ctx context.Context, idp IdentityProvider, store Store) (*SessionContext, error) {
	principal, err := RequirePrincipal(ctx, idp)
	if err != nil {
		return nil, err
	}
	userID := strings.TrimSpace(principal.ID)

	var (
		profile     *Profile
		preferred   string
		memberships []Membership
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := store.GetProfile(gctx, userID)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				return nil
			}
			return fmt.Errorf("get profile: %w: %w", ErrStoreUnavailable, err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		companyID, err := store.GetPreferredCompany(gctx, userID)
		if err != nil {
			if errors.Is(err, ErrPreferenceNotFound) {
				return nil
			}
			return fmt.Errorf("get preferred company: %w: %w", ErrStoreUnavailable, err)
		}
		preferred = strings.TrimSpace(companyID)
		return nil
	})
	g.Go(func() error {
		list, err := store.ListMemberships(gctx, userID, ActiveMembershipStatuses)
		if err != nil {
			return fmt.Errorf("list memberships: %w: %w", ErrStoreUnavailable, err)
		}
		memberships = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	session := &SessionContext{
		UserID:      userID,
		DisplayName: resolveDisplayName(profile, principal),
		Source:      SourceNone,
	}

	if preferred != "" {
		session.CompanyID = &preferred
		session.Source = SourcePreference
		return session, nil
	}

	if m, ok := latestMembership(memberships); ok {
		companyID := m.CompanyID
		session.CompanyID = &companyID
		session.Source = SourceMembership
	}

	return session, nil
}

func resolveDisplayName(profile *Profile, principal *Principal) string {
	if profile != nil {
		if name := strings.TrimSpace(profile.DisplayName); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(principal.DisplayNameHint); name != "" {
		return name
	}
	if email := strings.TrimSpace(principal.EmailHint); email != "" {
		local, _, _ := strings.Cut(email, "@")
		if local = strings.TrimSpace(local); local != "" {
			return local
		}
	}
	return fallbackDisplayName
}

func latestMembership(memberships []Membership) (Membership, bool) {
	candidates := make([]Membership, 0, len(memberships))
	for _, m := range memberships {
		if !isActiveLike(m.Status) || strings.TrimSpace(m.CompanyID) == "" {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return Membership{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		iActive := candidates[i].Status == MembershipStatusActive
		jActive := candidates[j].Status == MembershipStatusActive
		if iActive != jActive {
			return iActive
		}
		if !candidates[i].JoinedAt.Equal(candidates[j].JoinedAt) {
			return candidates[i].JoinedAt.After(candidates[j].JoinedAt)
		}
		return candidates[i].CompanyID < candidates[j].CompanyID
	})
	return candidates[0], true
}

func isActiveLike(status MembershipStatus) bool {
	for _, s := range ActiveMembershipStatuses {
		if status == s {
			return true
		}
	}
	return false
}
