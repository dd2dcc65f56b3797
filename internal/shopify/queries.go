package shopify

// CollectionsQuery fetches collections with their smart rule set and product count.
// ruleSet is null for custom collections.
const CollectionsQuery = `
query getCollections($first: Int!, $after: String) {
  collections(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        handle
        title
        sortOrder
        productsCount {
          count
        }
        ruleSet {
          appliedDisjunctively
          rules {
            column
            relation
            condition
          }
        }
      }
    }
  }
}
`

// ProductsQuery fetches products with tags and variants
const ProductsQuery = `
query getProducts($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        handle
        vendor
        productType
        status
        tags
        variants(first: 100) {
          edges {
            node {
              id
              sku
              title
              price
              inventoryQuantity
            }
          }
        }
      }
    }
  }
}
`

// MenusQuery fetches navigation menus three levels deep
const MenusQuery = `
query getMenus($first: Int!) {
  menus(first: $first) {
    edges {
      node {
        handle
        title
        items {
          title
          type
          resourceId
          url
          items {
            title
            type
            resourceId
            url
            items {
              title
              type
              resourceId
              url
            }
          }
        }
      }
    }
  }
}
`
